package race

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/Venefyxatu/sail-bot/latlon"
)

// Leg is one authored course change: crossing the Lon threshold while
// holding From either swings the vessel to To, drops it into
// coordinate mode at step Enter, or both.
type Leg struct {
	Lon   float64  `json:"lon"`
	From  float64  `json:"from"`
	To    *float64 `json:"to,omitempty"`
	Enter *int     `json:"enter,omitempty"`
}

// Step is one entry of the coordinate-mode sequence: a point to reach,
// a heading that resumes normal sailing, or the end of the voyage.
type Step struct {
	Point   *latlon.LatLon `json:"point,omitempty"`
	Heading *float64       `json:"heading,omitempty"`
	Done    bool           `json:"done,omitempty"`
}

// Plan is an authored route: the start, the initial heading, the leg
// table and the waypoint sequence.
type Plan struct {
	Name    string        `json:"name"`
	Start   latlon.LatLon `json:"start"`
	Heading float64       `json:"heading"`
	Legs    []Leg         `json:"legs"`
	Steps   []Step        `json:"steps"`
}

// Load reads and validates a plan file.
func Load(file string) (Plan, error) {
	content, err := ioutil.ReadFile(file)
	if err != nil {
		return Plan{}, err
	}
	var p Plan
	if err := json.Unmarshal(content, &p); err != nil {
		return Plan{}, err
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func (p Plan) Validate() error {
	for i, s := range p.Steps {
		n := 0
		if s.Point != nil {
			n++
		}
		if s.Heading != nil {
			n++
		}
		if s.Done {
			n++
		}
		if n != 1 {
			return fmt.Errorf("step %d of plan '%s' needs exactly one of point, heading or done", i, p.Name)
		}
		if s.Done && i != len(p.Steps)-1 {
			return fmt.Errorf("step %d of plan '%s': done before the end", i, p.Name)
		}
	}
	for i, l := range p.Legs {
		if l.To == nil && l.Enter == nil {
			return fmt.Errorf("leg %d of plan '%s' changes nothing", i, p.Name)
		}
		if l.Enter != nil && (*l.Enter < 0 || *l.Enter >= len(p.Steps)) {
			return fmt.Errorf("leg %d of plan '%s': enter %d out of range", i, p.Name, *l.Enter)
		}
		// the table matches on longitudes rounded to one decimal, a
		// finer threshold would never fire
		if latlon.ToFixed(l.Lon, 1) != l.Lon {
			return fmt.Errorf("leg %d of plan '%s': threshold %f finer than 0.1", i, p.Name, l.Lon)
		}
	}
	return nil
}

func deg(v float64) *float64 {
	return &v
}

func idx(i int) *int {
	return &i
}

// DefaultPlan is the built-in course, Les Sables-d'Olonne to
// Reykjavik: west out of Biscay, north along the 20°W meridian, then
// threading the Reykjanes approach on waypoints.
func DefaultPlan() Plan {
	return Plan{
		Name:    "norse-run",
		Start:   latlon.LatLon{Lat: 46.5, Lon: -1.8},
		Heading: 180.0,
		Legs: []Leg{
			{Lon: -20.0, From: 180.0, To: deg(90.0)},
			{Lon: -20.0, From: 90.0, Enter: idx(0)},
			{Lon: -22.0, From: 45.0, Enter: idx(3)},
		},
		Steps: []Step{
			{Point: &latlon.LatLon{Lat: 63.0, Lon: -20.0}},
			{Point: &latlon.LatLon{Lat: 63.5, Lon: -23.0}},
			{Heading: deg(45.0)},
			{Point: &latlon.LatLon{Lat: 64.1, Lon: -22.0}},
			{Done: true},
		},
	}
}
