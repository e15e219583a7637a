package model

import (
	"github.com/Venefyxatu/sail-bot/latlon"
	"github.com/Venefyxatu/sail-bot/wind"
)

// Tick is one position report from the boat. T counts hours since the
// start gun. Wind is optional; without it the server samples its own
// forecasts at the reported position.
type Tick struct {
	T        float64       `json:"t"`
	Position latlon.LatLon `json:"position"`
	Heading  float64       `json:"heading"`
	Wind     *wind.Vector  `json:"wind,omitempty"`
}
