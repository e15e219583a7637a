package stuck

import (
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/Venefyxatu/sail-bot/heading"
	"github.com/Venefyxatu/sail-bot/latlon"
)

const (
	escapeHours   = 2.0
	recoveryHours = 4.0
)

// Maneuver is a frozen two-phase escape: two hours on a reverse-biased
// heading, then two hours angled off it.
type Maneuver struct {
	Escape float64
	Angled float64
	Start  float64
}

// Heading returns the phase heading for hour t.
func (m *Maneuver) Heading(t float64) float64 {
	if t < m.Start+escapeHours {
		return m.Escape
	}
	return m.Angled
}

// Monitor watches for a vessel frozen in place and runs the scripted
// escape. While a maneuver is active it owns the helm; waypoints and
// tacking wait.
type Monitor struct {
	prev *latlon.LatLon
	run  *Maneuver
	pick func() bool
}

// New returns a Monitor. pick chooses the escape side on each trigger
// and defaults to a coin flip; tests inject a fixed one.
func New(pick func() bool) *Monitor {
	if pick == nil {
		pick = func() bool { return rand.Intn(2) == 0 }
	}
	return &Monitor{pick: pick}
}

// Check records the tick position and returns the active maneuver, if
// any. A position whose rounded coordinates match the previous tick's
// starts one; a maneuver past its four hours clears, and a vessel
// still frozen then starts a fresh one on the same tick.
func (m *Monitor) Check(pos latlon.LatLon, current float64, t float64) *Maneuver {
	rounded := pos.Round1()

	if m.run != nil && t >= m.run.Start+recoveryHours {
		log.Debugf("Recovery over at %.1fh, handing back the helm", t)
		m.run = nil
	}

	if m.run == nil && m.prev != nil && rounded == *m.prev {
		back := 135.0
		if m.pick() {
			back = 225.0
		}
		m.run = &Maneuver{
			Escape: heading.MinusWrap(current, back),
			Angled: heading.PlusWrap(heading.MinusWrap(current, 180.0), 90.0),
			Start:  t,
		}
		log.Infof("Stuck at {%.1f, %.1f}, escaping to %.1f then %.1f", rounded.Lat, rounded.Lon, m.run.Escape, m.run.Angled)
	}

	m.prev = &rounded
	return m.run
}

// Active returns the maneuver in progress, nil outside an episode.
func (m *Monitor) Active() *Maneuver {
	return m.run
}
