package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/Venefyxatu/sail-bot/api/model"
	"github.com/Venefyxatu/sail-bot/latlon"
	"github.com/Venefyxatu/sail-bot/pilot"
	"github.com/Venefyxatu/sail-bot/race"
	"github.com/Venefyxatu/sail-bot/wind"
)

func testRouter() *mux.Router {
	plan := race.Plan{Name: "test-run", Heading: 180.0}
	config := pilot.Config{Within: 45.0, Dwell: 4.0}
	return InitServer(false, plan, config, time.Time{}, nil, nil, nil)
}

func TestHealthz(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bot/-/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("healthz = %d; want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Ok") {
		t.Errorf("healthz body = %s; want Ok", rec.Body.String())
	}
}

func TestTick(t *testing.T) {
	router := testRouter()

	body, _ := json.Marshal(model.Tick{
		T:        0.0,
		Position: latlon.LatLon{Lat: 46.0, Lon: -5.0},
		Heading:  180.0,
		Wind:     &wind.Vector{U: math.Sqrt(3) / 2, V: -0.5},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bot/api/v1/tick", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("tick = %d; want 200", rec.Code)
	}

	var ins pilot.Instruction
	if err := json.NewDecoder(rec.Body).Decode(&ins); err != nil {
		t.Fatalf("tick body: %v", err)
	}
	if ins.Heading == nil || *ins.Heading != 225.0 {
		t.Errorf("tick heading = %v; want 225 off the wind", ins.Heading)
	}
	if ins.Sail != 1.0 {
		t.Errorf("tick sail = %f; want 1", ins.Sail)
	}
}

func TestTickBadBody(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bot/api/v1/tick", strings.NewReader("ahoy")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("tick = %d; want 400", rec.Code)
	}
}

func TestStateAndReset(t *testing.T) {
	router := testRouter()

	body, _ := json.Marshal(model.Tick{
		T:        0.0,
		Position: latlon.LatLon{Lat: 46.0, Lon: -5.0},
		Heading:  180.0,
		Wind:     &wind.Vector{U: math.Sqrt(3) / 2, V: -0.5},
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bot/api/v1/tick", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("tick = %d; want 200", rec.Code)
	}

	var got struct {
		Race  string      `json:"race"`
		State pilot.State `json:"state"`
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bot/api/v1/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("state = %d; want 200", rec.Code)
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("state body: %v", err)
	}
	if got.Race != "test-run" || got.State.Side != "left" {
		t.Errorf("state = %+v; want test-run on the left board", got)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bot/api/v1/reset", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reset = %d; want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bot/api/v1/state", nil))
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("state body: %v", err)
	}
	if got.State.Side != "none" || got.State.Corrected != nil {
		t.Errorf("state after reset = %+v; want a fresh pilot", got.State)
	}
}

func TestWindWithoutForecasts(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bot/api/v1/wind/0/46.0/-5.0", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("wind = %d; want 404 without forecasts", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bot/api/v1/winds", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("winds = %d; want 404 without forecasts", rec.Code)
	}
}

func TestTerrain(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bot/api/v1/land/45.0/-5.0", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("land = %d; want 200", rec.Code)
	}

	var res struct {
		Land bool `json:"land"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("land body: %v", err)
	}
	if res.Land {
		t.Error("land = true; want open sea without a bitmap")
	}
}
