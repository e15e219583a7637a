package api

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Venefyxatu/sail-bot/api/model"
	"github.com/Venefyxatu/sail-bot/land"
	"github.com/Venefyxatu/sail-bot/pilot"
	"github.com/Venefyxatu/sail-bot/race"
	"github.com/Venefyxatu/sail-bot/telemetry"
	"github.com/Venefyxatu/sail-bot/wind"
	"github.com/gorilla/mux"
	"github.com/pkg/profile"
)

type server struct {
	cpuprofile bool
	plan       race.Plan
	config     pilot.Config
	start      time.Time
	winds      *wind.Winds
	l          *land.Land
	pub        *telemetry.Publisher

	// one pilot, one boat: ticks serialize
	lock sync.Mutex
	p    *pilot.Pilot
}

func InitServer(cpuprofile bool, plan race.Plan, config pilot.Config, start time.Time, winds *wind.Winds, l *land.Land, pub *telemetry.Publisher) *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	s := server{
		cpuprofile: cpuprofile,
		plan:       plan,
		config:     config,
		start:      start,
		winds:      winds,
		l:          l,
		pub:        pub,
		p:          pilot.New(plan, config),
	}

	api := router.PathPrefix("/bot").Subrouter()
	api.HandleFunc("/-/healthz", s.healthz).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/bot/api/v1").Subrouter()
	apiV1.HandleFunc("/tick", s.tick).Methods("POST")
	apiV1.HandleFunc("/state", s.state).Methods("GET")
	apiV1.HandleFunc("/reset", s.reset).Methods("POST")
	apiV1.HandleFunc("/winds", s.stamps).Methods("GET")
	apiV1.HandleFunc("/wind/{hours}/{lat}/{lon}", s.wind).Methods("GET")
	apiV1.HandleFunc("/land/{lat}/{lon}", s.terrain).Methods("GET")

	return router
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	json.NewEncoder(w).Encode(health{Status: "Ok"})
}

func (s *server) tick(w http.ResponseWriter, req *http.Request) {
	if s.cpuprofile {
		defer profile.Start().Stop()
	}

	fields := log.Fields{
		"action": "tick",
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	requestLogger := log.WithFields(fields)

	var tick model.Tick
	if err := json.NewDecoder(req.Body).Decode(&tick); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var v wind.Vector
	if tick.Wind != nil {
		v = *tick.Wind
	} else if s.winds != nil {
		m := s.start.Add(time.Duration(tick.T * float64(time.Hour)))
		v = s.winds.Vector(m, tick.Position.Lat, tick.Position.Lon)
	}

	s.lock.Lock()
	ins := s.p.Tick(pilot.Input{T: tick.T, Position: tick.Position, Heading: tick.Heading, Wind: v})
	s.lock.Unlock()

	requestLogger.Infof("Tick t=%.2f {%.4f, %.4f} sail %.0f", tick.T, tick.Position.Lat, tick.Position.Lon, ins.Sail)

	s.pub.Publish(telemetry.Fix{
		T:         tick.T,
		Latitude:  tick.Position.Lat,
		Longitude: tick.Position.Lon,
		Heading:   tick.Heading,
		Sail:      ins.Sail,
		WindTo:    v.Toward(),
		WindKnots: v.Knots(),
	})

	json.NewEncoder(w).Encode(ins)
}

func (s *server) state(w http.ResponseWriter, req *http.Request) {
	s.lock.Lock()
	st := s.p.State()
	s.lock.Unlock()

	type status struct {
		Race  string      `json:"race"`
		State pilot.State `json:"state"`
	}

	json.NewEncoder(w).Encode(status{Race: s.plan.Name, State: st})
}

func (s *server) reset(w http.ResponseWriter, req *http.Request) {
	s.lock.Lock()
	s.p = pilot.New(s.plan, s.config)
	s.lock.Unlock()

	log.Infof("Pilot reset for '%s'", s.plan.Name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) stamps(w http.ResponseWriter, req *http.Request) {
	if s.winds == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(s.winds.Stamps())
}

func (s *server) wind(w http.ResponseWriter, req *http.Request) {
	if s.winds == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	hours, err := strconv.ParseFloat(mux.Vars(req)["hours"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	lat, err := strconv.ParseFloat(mux.Vars(req)["lat"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(mux.Vars(req)["lon"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	type windResult struct {
		Toward float64 `json:"toward"`
		Knots  float64 `json:"knots"`
	}

	v := s.winds.Vector(time.Now().Add(time.Duration(hours*float64(time.Hour))), lat, lon)
	res := windResult{Toward: v.Toward(), Knots: v.Knots()}

	log.Infof("Wind (%f,%f) : %.1f° %.1f kt", lat, lon, res.Toward, res.Knots)

	json.NewEncoder(w).Encode(res)
}

func (s *server) terrain(w http.ResponseWriter, req *http.Request) {
	lat, err := strconv.ParseFloat(mux.Vars(req)["lat"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(mux.Vars(req)["lon"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	type landResult struct {
		Land bool `json:"land"`
	}

	json.NewEncoder(w).Encode(landResult{Land: s.l.IsLand(lat, lon)})
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP := net.ParseIP(ip)
		if netIP != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
