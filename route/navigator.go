package route

import (
	log "github.com/sirupsen/logrus"

	"github.com/Venefyxatu/sail-bot/latlon"
	"github.com/Venefyxatu/sail-bot/race"
)

// Decision is what navigation wants for one tick. With a Waypoint set
// the pilot steers toward it and tacking stands down; Done ends the
// voyage. Neither set means heading mode: steer the intended heading,
// tacking allowed.
type Decision struct {
	Waypoint *latlon.LatLon
	Done     bool
	Reached  bool
	Entered  bool
}

// Navigator walks the authored plan: the leg table while in heading
// mode, the step sequence while in coordinate mode.
type Navigator struct {
	plan       race.Plan
	index      int
	reached    bool
	coordinate bool
}

func New(plan race.Plan) *Navigator {
	return &Navigator{plan: plan}
}

// Next runs one navigation tick. intended is the pilot's current
// intended heading and the returned value replaces it; leg transitions
// and terminal waypoints are the only places it changes.
func (n *Navigator) Next(pos latlon.LatLon, intended float64) (float64, Decision) {
	var d Decision

	if !n.coordinate {
		lon := latlon.ToFixed(pos.Lon, 1)
		for _, leg := range n.plan.Legs {
			if leg.Lon != lon || leg.From != intended {
				continue
			}
			if leg.To != nil {
				log.Infof("Crossed %.1f, turning to %.1f", leg.Lon, *leg.To)
				intended = *leg.To
			}
			if leg.Enter != nil {
				log.Infof("Crossed %.1f, threading waypoints from step %d", leg.Lon, *leg.Enter)
				n.index = *leg.Enter
				n.reached = false
				n.coordinate = true
				d.Entered = true
			}
			break
		}
	}

	if !n.coordinate {
		return intended, d
	}

	// a waypoint reached last tick advances the sequence now
	if n.reached {
		n.index++
		n.reached = false
	}
	if n.index >= len(n.plan.Steps) {
		d.Done = true
		return intended, d
	}

	step := n.plan.Steps[n.index]
	switch {
	case step.Done:
		d.Done = true
	case step.Heading != nil:
		log.Infof("Waypoints done, resuming on %.1f", *step.Heading)
		intended = *step.Heading
		n.coordinate = false
	case step.Point != nil:
		d.Waypoint = step.Point
		if pos.Round1() == step.Point.Round1() {
			log.Infof("Reached {%.1f, %.1f}", step.Point.Lat, step.Point.Lon)
			n.reached = true
			d.Reached = true
		}
	}

	return intended, d
}

// Index is the current position in the step sequence.
func (n *Navigator) Index() int {
	return n.index
}

// Coordinate reports whether the navigator is steering waypoints.
func (n *Navigator) Coordinate() bool {
	return n.coordinate
}
