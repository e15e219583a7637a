package tack

import (
	log "github.com/sirupsen/logrus"

	"github.com/Venefyxatu/sail-bot/heading"
)

// Turn classifies the wind against the no-go cone for one tick.
type Turn int

const (
	TurnNone Turn = iota
	TurnLeft
	TurnRight
)

func (t Turn) String() string {
	switch t {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	}
	return "none"
}

// Side is the board the last correction put the vessel on.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return "none"
}

// Engine steers the vessel off the intended course when that course
// points too close against the wind. Corrections sit 45° off the
// intended heading; when two corrections land on the same board the
// second one becomes a 90° tack onto the other board. A correction
// holds for at least Dwell hours before the next one.
type Engine struct {
	Within float64 // half-width of the no-go cone, degrees
	Dwell  float64 // minimum hours between corrections

	side      Side
	corrected *float64
}

func New(within, dwell float64) *Engine {
	return &Engine{Within: within, Dwell: dwell}
}

// bounds computes the no-go cone around the reverse of the intended
// heading. When the cone straddles the 0/360 seam the below bound is
// clamped to 360 so both comparisons stay on one wrap.
func (e *Engine) bounds(intended float64) (float64, float64) {
	opposite := heading.PlusWrap(180.0, intended)
	below := heading.PlusWrap(opposite, e.Within)
	above := heading.MinusWrap(opposite, e.Within)
	if below < above {
		below = 360.0
	}
	return below, above
}

// acceptable reports whether current stays within 45° of intended.
// The band is open on both ends and collapses to nothing when
// intended sits on the seam.
func acceptable(current, intended float64) bool {
	return current > heading.MinusWrap(intended, 45.0) && current < heading.PlusWrap(intended, 45.0)
}

func (e *Engine) classify(intended, current, wind float64) Turn {
	below, above := e.bounds(intended)
	if wind > above && wind < below && acceptable(current, intended) {
		return TurnLeft
	}
	// the clamp keeps below at or above the above bound, so this
	// ordering cannot match with the current cone width
	if wind < above && wind > below && current != intended {
		return TurnRight
	}
	return TurnNone
}

// Decide returns the heading to steer this tick. The intended heading
// comes back unchanged when the wind is clear of the cone or a recent
// correction still dwells; a cleared cone also re-arms the dwell gate
// so the next qualifying tick corrects immediately.
func (e *Engine) Decide(intended, current, wind, t float64) float64 {
	turn := e.classify(intended, current, wind)
	if turn == TurnNone {
		if e.corrected != nil {
			log.Debugf("Wind %.1f clear of the cone, resuming %.1f", wind, intended)
		}
		e.corrected = nil
		return intended
	}
	if e.corrected != nil && t-*e.corrected < e.Dwell {
		log.Debugf("Holding %s leg, %.2fh of %.2fh", e.side, t-*e.corrected, e.Dwell)
		return intended
	}
	return e.correct(turn, intended, t)
}

func (e *Engine) correct(turn Turn, intended, t float64) float64 {
	var h float64
	switch turn {
	case TurnLeft:
		h = heading.PlusWrap(intended, 45.0)
		if e.side == SideLeft {
			h = heading.MinusWrap(h, 90.0)
			e.side = SideRight
			log.Debugf("Tacking to %.1f", h)
		} else {
			e.side = SideLeft
			log.Debugf("Turning left to %.1f", h)
		}
	case TurnRight:
		h = heading.MinusWrap(intended, 45.0)
		if e.side == SideRight {
			h = heading.PlusWrap(h, 90.0)
			e.side = SideLeft
			log.Debugf("Tacking to %.1f", h)
		} else {
			e.side = SideRight
			log.Debugf("Turning right to %.1f", h)
		}
	}
	e.corrected = &t
	return h
}

// Side is the board of the last correction.
func (e *Engine) Side() Side {
	return e.side
}

// LastCorrection returns the hours stamp of the correction currently
// dwelling, if any.
func (e *Engine) LastCorrection() (float64, bool) {
	if e.corrected == nil {
		return 0, false
	}
	return *e.corrected, true
}
