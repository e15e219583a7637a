package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Config for the publisher. An empty Broker disables telemetry.
type Config struct {
	Broker   string
	Port     int
	Topic    string
	Username string
	Password string
}

// Fix is the state pushed after every tick. T is voyage time in hours.
type Fix struct {
	T         float64 `json:"t"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Heading   float64 `json:"heading"`
	Sail      float64 `json:"sail"`
	WindTo    float64 `json:"windTo"`
	WindKnots float64 `json:"windKnots"`
}

// Publisher pushes fixes to an mqtt broker. Messages are retained so
// a dashboard gets the latest fix as soon as it subscribes.
type Publisher struct {
	config Config
	client mqtt.Client
}

func New(config Config) *Publisher {
	if config.Topic == "" {
		config.Topic = "sailbot/fix"
	}
	return &Publisher{config: config}
}

func (p *Publisher) Enabled() bool {
	return p.config.Broker != ""
}

func (p *Publisher) Start() error {
	if !p.Enabled() {
		return nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", p.config.Broker, p.config.Port))
	opts.SetClientID(fmt.Sprintf("sail-bot-%d", time.Now().Unix()))
	if p.config.Username != "" {
		opts.SetUsername(p.config.Username)
		opts.SetPassword(p.config.Password)
	}
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		log.Infof("Telemetry connected to %s", p.config.Broker)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.WithError(err).Warn("Telemetry connection lost")
	}

	p.client = mqtt.NewClient(opts)

	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("telemetry: connect to %s timed out", p.config.Broker)
	}
	return token.Error()
}

// Publish fires and forgets one fix. A tick never waits on the
// broker, and a nil publisher swallows everything.
func (p *Publisher) Publish(fix Fix) {
	if p == nil || p.client == nil || !p.client.IsConnected() {
		return
	}

	payload, err := json.Marshal(fix)
	if err != nil {
		log.WithError(err).Error("Unable to encode telemetry")
		return
	}
	p.client.Publish(p.config.Topic, 0, true, payload)
}

func (p *Publisher) Stop() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(1000)
	}
}
