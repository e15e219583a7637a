package race

import (
	"testing"

	"github.com/Venefyxatu/sail-bot/latlon"
)

func TestLoad(t *testing.T) {
	p, err := Load("testdata/plan.json")
	if err != nil {
		t.Fatalf("Load(testdata/plan.json) error: %v", err)
	}
	if p.Name != "test" {
		t.Errorf("Name = %s; want test", p.Name)
	}
	if p.Start.Lat != 46.5 || p.Start.Lon != -1.8 {
		t.Errorf("Start = {%f, %f}; want {46.5, -1.8}", p.Start.Lat, p.Start.Lon)
	}
	if p.Heading != 180.0 {
		t.Errorf("Heading = %f; want 180", p.Heading)
	}
	if len(p.Legs) != 1 || p.Legs[0].Lon != -20.0 || p.Legs[0].From != 180.0 || *p.Legs[0].To != 90.0 {
		t.Errorf("Legs = %v; want one leg -20.0/180/90", p.Legs)
	}
	if len(p.Steps) != 3 || p.Steps[0].Point == nil || *p.Steps[1].Heading != 45.0 || !p.Steps[2].Done {
		t.Errorf("Steps = %v; want point, heading 45, done", p.Steps)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("testdata/nope.json"); err == nil {
		t.Errorf("Load(testdata/nope.json) = nil error; want error")
	}
}

func TestValidateStepKinds(t *testing.T) {
	p := Plan{Name: "bad", Steps: []Step{
		{Point: &latlon.LatLon{Lat: 1, Lon: 2}, Heading: deg(45.0)},
	}}
	if err := p.Validate(); err == nil {
		t.Errorf("Validate(point+heading step) = nil; want error")
	}

	p = Plan{Name: "bad", Steps: []Step{{}}}
	if err := p.Validate(); err == nil {
		t.Errorf("Validate(empty step) = nil; want error")
	}
}

func TestValidateDoneLast(t *testing.T) {
	p := Plan{Name: "bad", Steps: []Step{
		{Done: true},
		{Heading: deg(45.0)},
	}}
	if err := p.Validate(); err == nil {
		t.Errorf("Validate(done before end) = nil; want error")
	}
}

func TestValidateLegs(t *testing.T) {
	p := Plan{Name: "bad", Legs: []Leg{{Lon: -20.0, From: 180.0}}}
	if err := p.Validate(); err == nil {
		t.Errorf("Validate(leg without to or enter) = nil; want error")
	}

	p = Plan{Name: "bad",
		Legs:  []Leg{{Lon: -20.0, From: 180.0, Enter: idx(5)}},
		Steps: []Step{{Done: true}},
	}
	if err := p.Validate(); err == nil {
		t.Errorf("Validate(enter out of range) = nil; want error")
	}

	p = Plan{Name: "bad", Legs: []Leg{{Lon: -20.05, From: 180.0, To: deg(90.0)}}}
	if err := p.Validate(); err == nil {
		t.Errorf("Validate(threshold -20.05) = nil; want error")
	}
}

func TestDefaultPlan(t *testing.T) {
	p := DefaultPlan()
	if err := p.Validate(); err != nil {
		t.Fatalf("DefaultPlan().Validate() error: %v", err)
	}
	if p.Legs[0].Lon != -20.0 || p.Legs[0].From != 180.0 || *p.Legs[0].To != 90.0 {
		t.Errorf("Legs[0] = %v; want -20.0/180/90", p.Legs[0])
	}
	if !p.Steps[len(p.Steps)-1].Done {
		t.Errorf("last step of the default plan is not done")
	}
}
