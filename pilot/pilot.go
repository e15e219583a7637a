// Package pilot turns one position report into one steering
// instruction. Every decision the bot makes happens inside Tick, in
// order: escape a stuck boat, then follow the plan, then correct for
// wind. Nothing here keeps wall clock time; T is hours since the
// start gun.
package pilot

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Venefyxatu/sail-bot/latlon"
	"github.com/Venefyxatu/sail-bot/race"
	"github.com/Venefyxatu/sail-bot/route"
	"github.com/Venefyxatu/sail-bot/stuck"
	"github.com/Venefyxatu/sail-bot/tack"
	"github.com/Venefyxatu/sail-bot/wind"
)

// Input is one tick worth of boat state.
type Input struct {
	T        float64
	Position latlon.LatLon
	Heading  float64
	Wind     wind.Vector
}

// Instruction is what the helm should do until the next tick: steer a
// heading or steer at a location, and trim the sail.
type Instruction struct {
	Heading  *float64       `json:"heading,omitempty"`
	Location *latlon.LatLon `json:"location,omitempty"`
	Sail     float64        `json:"sail"`
}

// Config tunes the pilot. Pick and Notify may be nil.
type Config struct {
	Within float64
	Dwell  float64
	Pick   func() bool
	Notify func(message string) error
}

// State is a snapshot for the api.
type State struct {
	Intended   float64  `json:"intended"`
	Side       string   `json:"side"`
	Corrected  *float64 `json:"corrected,omitempty"`
	Coordinate bool     `json:"coordinate"`
	Index      int      `json:"index"`
	Stuck      bool     `json:"stuck"`
	Done       bool     `json:"done"`
}

type Pilot struct {
	intended float64
	tack     *tack.Engine
	stuck    *stuck.Monitor
	nav      *route.Navigator
	notify   func(string) error
	escape   *stuck.Maneuver
	done     bool
}

func New(plan race.Plan, config Config) *Pilot {
	return &Pilot{
		intended: plan.Heading,
		tack:     tack.New(config.Within, config.Dwell),
		stuck:    stuck.New(config.Pick),
		nav:      route.New(plan),
		notify:   config.Notify,
	}
}

// Tick runs one decision round. It is not safe for concurrent use;
// callers serialize.
func (p *Pilot) Tick(in Input) Instruction {
	log.Debugf("Tick t=%.2f {%.4f, %.4f} heading %.1f", in.T, in.Position.Lat, in.Position.Lon, in.Heading)

	if p.done {
		return Instruction{Sail: 0.0}
	}

	if m := p.stuck.Check(in.Position, in.Heading, in.T); m != nil {
		if m != p.escape {
			p.escape = m
			p.say(fmt.Sprintf("Stuck at {%.1f, %.1f}, escaping", in.Position.Lat, in.Position.Lon))
		}
		h := m.Heading(in.T)
		return Instruction{Heading: &h, Sail: 1.0}
	}
	p.escape = nil

	intended, d := p.nav.Next(in.Position, p.intended)
	p.intended = intended

	if d.Done {
		p.done = true
		log.Infof("Voyage complete")
		p.say("Voyage complete, dropping sail")
		return Instruction{Sail: 0.0}
	}

	if d.Reached {
		p.say(fmt.Sprintf("Reached {%.1f, %.1f}", d.Waypoint.Lat, d.Waypoint.Lon))
	}
	if d.Waypoint != nil {
		return Instruction{Location: d.Waypoint, Sail: 1.0}
	}

	h := p.tack.Decide(p.intended, in.Heading, in.Wind.Toward(), in.T)
	return Instruction{Heading: &h, Sail: 1.0}
}

func (p *Pilot) State() State {
	s := State{
		Intended:   p.intended,
		Side:       p.tack.Side().String(),
		Coordinate: p.nav.Coordinate(),
		Index:      p.nav.Index(),
		Stuck:      p.stuck.Active() != nil,
		Done:       p.done,
	}
	if t, ok := p.tack.LastCorrection(); ok {
		s.Corrected = &t
	}
	return s
}

func (p *Pilot) say(message string) {
	if p.notify == nil {
		return
	}
	if err := p.notify(message); err != nil {
		log.WithError(err).Warn("Unable to notify the skipper")
	}
}
