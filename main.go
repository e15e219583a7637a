package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"

	"github.com/Venefyxatu/sail-bot/api"
	"github.com/Venefyxatu/sail-bot/land"
	"github.com/Venefyxatu/sail-bot/pilot"
	"github.com/Venefyxatu/sail-bot/polar"
	"github.com/Venefyxatu/sail-bot/race"
	"github.com/Venefyxatu/sail-bot/sim"
	"github.com/Venefyxatu/sail-bot/telemetry"
	"github.com/Venefyxatu/sail-bot/wind"
	"github.com/Venefyxatu/sail-bot/xmpp"
)

func main() {

	fs := flag.NewFlagSet("sail-bot", flag.ExitOnError)
	var (
		addr       = fs.String("addr", ":8887", "listen address")
		gribDir    = fs.String("grib-dir", "", "directory of grib forecasts, empty disables wind sampling")
		landFile   = fs.String("land-file", "", "land bitmap, empty sails an open ocean")
		planFile   = fs.String("plan", "", "race plan json, empty runs the built-in plan")
		polarFile  = fs.String("polar", "", "polar json, empty uses the default boat")
		startAt    = fs.String("start", "", "start gun in RFC3339, empty starts now")
		within     = fs.Float64("within", 45.0, "half-width of the no-go cone, degrees")
		dwell      = fs.Float64("dwell", 4.0, "hours a wind correction holds")
		simulate   = fs.Bool("simulate", false, "sail the plan offline and exit")
		hours      = fs.Float64("hours", 240.0, "simulated voyage cap, hours")
		dt         = fs.Float64("dt", 1.0, "simulated hours per tick")
		debug      = fs.Bool("debug", false, "debug logging")
		cpuprofile = fs.Bool("cpuprofile", false, "profile each tick")

		xmppHost     = fs.String("xmpp-host", "", "")
		xmppJid      = fs.String("xmpp-jid", "", "")
		xmppPassword = fs.String("xmpp-password", "", "")
		xmppTo       = fs.String("xmpp-to", "", "")

		mqttBroker   = fs.String("mqtt-broker", "", "telemetry broker, empty disables telemetry")
		mqttPort     = fs.Int("mqtt-port", 1883, "")
		mqttTopic    = fs.String("mqtt-topic", "", "")
		mqttUser     = fs.String("mqtt-user", "", "")
		mqttPassword = fs.String("mqtt-password", "", "")
	)
	ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix())

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	plan := race.DefaultPlan()
	if *planFile != "" {
		var err error
		plan, err = race.Load(*planFile)
		if err != nil {
			log.WithError(err).Fatalf("Unable to load plan '%s'", *planFile)
		}
	}
	log.Infof("Sailing '%s' from {%.4f, %.4f} on %.0f", plan.Name, plan.Start.Lat, plan.Start.Lon, plan.Heading)

	curve := polar.Default()
	if *polarFile != "" {
		var err error
		curve, err = polar.Load(*polarFile)
		if err != nil {
			log.WithError(err).Fatalf("Unable to load polar '%s'", *polarFile)
		}
	}

	var terrain *land.Land
	if *landFile != "" {
		var err error
		terrain, err = land.InitLand(*landFile)
		if err != nil {
			log.WithError(err).Fatal("Unable to load the land bitmap")
		}
	}

	var winds *wind.Winds
	if *gribDir != "" {
		winds = wind.InitWinds(*gribDir)
	}

	start := time.Now()
	if *startAt != "" {
		var err error
		start, err = time.Parse(time.RFC3339, *startAt)
		if err != nil {
			log.WithError(err).Fatalf("Unable to parse start '%s'", *startAt)
		}
	}

	notifier := xmpp.Notifier{Config: xmpp.Config{
		Host:     *xmppHost,
		Jid:      *xmppJid,
		Password: *xmppPassword,
		To:       *xmppTo,
	}}

	pub := telemetry.New(telemetry.Config{
		Broker:   *mqttBroker,
		Port:     *mqttPort,
		Topic:    *mqttTopic,
		Username: *mqttUser,
		Password: *mqttPassword,
	})
	if err := pub.Start(); err != nil {
		log.WithError(err).Warn("Telemetry stays off")
	}
	defer pub.Stop()

	config := pilot.Config{Within: *within, Dwell: *dwell}
	if notifier.Enabled() {
		config.Notify = notifier.Send
	}

	if *simulate {
		runSim(plan, config, curve, terrain, winds, pub, start, *hours, *dt)
		return
	}

	log.Infof("Start server on %s", *addr)

	router := api.InitServer(*cpuprofile, plan, config, start, winds, terrain, pub)
	log.Fatal(http.ListenAndServe(*addr, handlers.CombinedLoggingHandler(os.Stdout, handlers.CORS()(router))))
}

func runSim(plan race.Plan, config pilot.Config, curve polar.Curve, terrain *land.Land, winds *wind.Winds, pub *telemetry.Publisher, start time.Time, hours, dt float64) {
	var forecast wind.Forecast
	if winds != nil {
		forecast = winds.ForecastAt(start)
	}

	s := sim.New(sim.Config{
		Plan:     plan,
		Pilot:    config,
		Forecast: forecast,
		Terrain:  terrain.IsLand,
		Polar:    curve,
		Dt:       dt,
		Hours:    hours,
	})

	steps := s.Run()
	if len(steps) == 0 {
		log.Warn("Nothing sailed")
		return
	}

	for _, step := range steps {
		pub.Publish(telemetry.Fix{
			T:         step.T,
			Latitude:  step.Position.Lat,
			Longitude: step.Position.Lon,
			Heading:   step.Heading,
			Sail:      step.Sail,
			WindTo:    step.Wind.Toward(),
			WindKnots: step.Wind.Knots(),
		})
	}

	last := steps[len(steps)-1]
	if s.State().Done {
		log.Infof("Voyage complete after %.0f hours at {%.4f, %.4f}", last.T, last.Position.Lat, last.Position.Lon)
	} else {
		log.Infof("Time up after %.0f hours at {%.4f, %.4f}", last.T, last.Position.Lat, last.Position.Lon)
	}
}
