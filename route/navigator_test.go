package route

import (
	"testing"

	"github.com/Venefyxatu/sail-bot/latlon"
	"github.com/Venefyxatu/sail-bot/race"
)

func deg(d float64) *float64 {
	return &d
}

func idx(i int) *int {
	return &i
}

func TestLegTurn(t *testing.T) {
	plan := race.Plan{Legs: []race.Leg{{Lon: -20.0, From: 180.0, To: deg(90.0)}}}
	n := New(plan)

	h, d := n.Next(latlon.LatLon{Lat: 46.0, Lon: -19.96}, 180.0)
	if h != 90.0 {
		t.Errorf("Next() heading = %f; want 90", h)
	}
	if d.Waypoint != nil || d.Done || d.Entered {
		t.Errorf("Next() decision = %+v; want none", d)
	}
	if n.Coordinate() {
		t.Error("Coordinate() = true; want false")
	}

	h, _ = n.Next(latlon.LatLon{Lat: 46.0, Lon: -20.0}, 90.0)
	if h != 90.0 {
		t.Errorf("Next() after turn heading = %f; want 90", h)
	}
}

func TestLegNoMatch(t *testing.T) {
	plan := race.Plan{Legs: []race.Leg{{Lon: -20.0, From: 180.0, To: deg(90.0)}}}
	n := New(plan)

	h, _ := n.Next(latlon.LatLon{Lat: 46.0, Lon: -19.96}, 120.0)
	if h != 120.0 {
		t.Errorf("Next() off-heading = %f; want 120 unchanged", h)
	}

	h, _ = n.Next(latlon.LatLon{Lat: 46.0, Lon: -19.7}, 180.0)
	if h != 180.0 {
		t.Errorf("Next() off-longitude = %f; want 180 unchanged", h)
	}
}

func TestWaypointThreading(t *testing.T) {
	p0 := latlon.LatLon{Lat: 63.0, Lon: -20.0}
	p1 := latlon.LatLon{Lat: 63.5, Lon: -23.0}
	plan := race.Plan{
		Legs: []race.Leg{{Lon: -20.0, From: 90.0, Enter: idx(0)}},
		Steps: []race.Step{
			{Point: &p0},
			{Point: &p1},
			{Heading: deg(120.0)},
			{Done: true},
		},
	}
	n := New(plan)

	h, d := n.Next(latlon.LatLon{Lat: 62.0, Lon: -20.0}, 90.0)
	if !d.Entered {
		t.Error("Next() crossing entry longitude: Entered = false; want true")
	}
	if d.Waypoint == nil || *d.Waypoint != p0 {
		t.Errorf("Next() waypoint = %v; want %v", d.Waypoint, p0)
	}
	if h != 90.0 {
		t.Errorf("Next() heading = %f; want 90 unchanged", h)
	}

	// arrival tick still steers at the reached waypoint
	_, d = n.Next(latlon.LatLon{Lat: 63.04, Lon: -19.96}, 90.0)
	if !d.Reached {
		t.Error("Next() at waypoint: Reached = false; want true")
	}
	if d.Waypoint == nil || *d.Waypoint != p0 {
		t.Errorf("Next() at waypoint = %v; want still %v", d.Waypoint, p0)
	}
	if n.Index() != 0 {
		t.Errorf("Index() = %d; want 0 until next tick", n.Index())
	}

	_, d = n.Next(latlon.LatLon{Lat: 63.0, Lon: -20.0}, 90.0)
	if n.Index() != 1 {
		t.Errorf("Index() = %d; want 1", n.Index())
	}
	if d.Waypoint == nil || *d.Waypoint != p1 {
		t.Errorf("Next() waypoint = %v; want %v", d.Waypoint, p1)
	}
	if d.Reached {
		t.Error("Next() en route: Reached = true; want false")
	}

	_, d = n.Next(latlon.LatLon{Lat: 63.46, Lon: -23.04}, 90.0)
	if !d.Reached {
		t.Error("Next() at second waypoint: Reached = false; want true")
	}

	h, d = n.Next(latlon.LatLon{Lat: 63.5, Lon: -23.0}, 90.0)
	if h != 120.0 {
		t.Errorf("Next() past waypoints heading = %f; want 120", h)
	}
	if n.Coordinate() {
		t.Error("Coordinate() = true; want false after terminal heading")
	}
	if d.Waypoint != nil || d.Done {
		t.Errorf("Next() past waypoints decision = %+v; want none", d)
	}

	h, _ = n.Next(latlon.LatLon{Lat: 63.5, Lon: -23.0}, 120.0)
	if h != 120.0 {
		t.Errorf("Next() resumed heading = %f; want 120", h)
	}
}

func TestVoyageDone(t *testing.T) {
	p0 := latlon.LatLon{Lat: 63.0, Lon: -20.0}
	plan := race.Plan{
		Legs:  []race.Leg{{Lon: -20.0, From: 90.0, Enter: idx(0)}},
		Steps: []race.Step{{Point: &p0}, {Done: true}},
	}
	n := New(plan)

	_, d := n.Next(p0, 90.0)
	if !d.Entered || !d.Reached {
		t.Errorf("Next() entering on the waypoint: decision = %+v; want Entered and Reached", d)
	}

	_, d = n.Next(p0, 90.0)
	if !d.Done {
		t.Error("Next() Done = false; want true")
	}
	if d.Waypoint != nil {
		t.Errorf("Next() waypoint = %v; want nil when done", d.Waypoint)
	}

	_, d = n.Next(p0, 90.0)
	if !d.Done {
		t.Error("Next() Done = false; want true to stay done")
	}
}

func TestPastLastStep(t *testing.T) {
	p0 := latlon.LatLon{Lat: 63.0, Lon: -20.0}
	plan := race.Plan{
		Legs:  []race.Leg{{Lon: -20.0, From: 90.0, Enter: idx(0)}},
		Steps: []race.Step{{Point: &p0}},
	}
	n := New(plan)

	n.Next(p0, 90.0)
	_, d := n.Next(p0, 90.0)
	if !d.Done {
		t.Error("Next() past the last step: Done = false; want true")
	}
}
