// Package sim sails the pilot against a forecast without a race
// server: straight-line hops on a spherical earth, boat speed off the
// polar, coastline cells refusing the move.
package sim

import (
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/Venefyxatu/sail-bot/land"
	"github.com/Venefyxatu/sail-bot/latlon"
	"github.com/Venefyxatu/sail-bot/pilot"
	"github.com/Venefyxatu/sail-bot/polar"
	"github.com/Venefyxatu/sail-bot/race"
	"github.com/Venefyxatu/sail-bot/wind"
)

// Config for one run. Dt and Hours count voyage hours; a zero Dt
// means one-hour ticks. A nil Forecast gets a steady westerly and a
// zero Polar the default boat.
type Config struct {
	Plan     race.Plan
	Pilot    pilot.Config
	Forecast wind.Forecast
	Terrain  land.Query
	Polar    polar.Curve
	Dt       float64
	Hours    float64
}

// Step is the boat state once a tick's instruction was applied.
type Step struct {
	T        float64       `json:"t"`
	Position latlon.LatLon `json:"position"`
	Heading  float64       `json:"heading"`
	Sail     float64       `json:"sail"`
	Wind     wind.Vector   `json:"wind"`
	Twa      float64       `json:"twa"`
	Knots    float64       `json:"knots"`
	Blocked  bool          `json:"blocked,omitempty"`
}

type Simulation struct {
	config  Config
	sph     latlon.LatLonSpherical
	pilot   *pilot.Pilot
	pos     latlon.LatLon
	heading float64
}

func New(config Config) *Simulation {
	if config.Dt <= 0 {
		config.Dt = 1.0
	}
	if config.Forecast == nil {
		config.Forecast = wind.Constant(wind.Vector{U: 8.0, V: 0.0})
	}
	if len(config.Polar.Twa) == 0 {
		config.Polar = polar.Default()
	}
	return &Simulation{
		config:  config,
		pilot:   pilot.New(config.Plan, config.Pilot),
		pos:     config.Plan.Start,
		heading: config.Plan.Heading,
	}
}

// compass converts between race degrees, counterclockwise from east,
// and compass bearings. The mapping is its own inverse.
func compass(h float64) float64 {
	c := math.Mod(90.0-h, 360.0)
	if c < 0 {
		c += 360.0
	}
	return c
}

// Run sails until the pilot drops the sail or the clock runs out, and
// returns one Step per tick.
func (s *Simulation) Run() []Step {
	var steps []Step

	for t := 0.0; t < s.config.Hours; t += s.config.Dt {
		v := s.config.Forecast(s.pos.Lat, s.pos.Lon, t)
		ins := s.pilot.Tick(pilot.Input{T: t, Position: s.pos, Heading: s.heading, Wind: v})

		if ins.Heading != nil {
			s.heading = *ins.Heading
		} else if ins.Location != nil {
			s.heading = compass(s.sph.BearingTo(s.pos, *ins.Location))
		}

		twa := wind.Twa(compass(s.heading), v.From())
		kn := s.config.Polar.BoatSpeed(twa, v.Speed()) * ins.Sail
		blocked := false

		if kn > 0 {
			next := s.sph.Destination(s.pos, compass(s.heading), kn*1.852*1000.0*s.config.Dt)
			if s.config.Terrain != nil && s.config.Terrain(next.Lat, next.Lon) {
				blocked = true
				log.Debugf("Aground off {%.2f, %.2f}, holding position", next.Lat, next.Lon)
			} else {
				s.pos = next
			}
		}

		steps = append(steps, Step{
			T:        t,
			Position: s.pos,
			Heading:  s.heading,
			Sail:     ins.Sail,
			Wind:     v,
			Twa:      twa,
			Knots:    kn,
			Blocked:  blocked,
		})

		if ins.Sail == 0.0 {
			break
		}
	}

	return steps
}

// State is the pilot's snapshot after the last tick.
func (s *Simulation) State() pilot.State {
	return s.pilot.State()
}

// Position is the boat's current fix.
func (s *Simulation) Position() latlon.LatLon {
	return s.pos
}
