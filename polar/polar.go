package polar

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
)

// Curve is a boat polar: boat speed in knots over a grid of true wind
// angles and true wind speeds.
type Curve struct {
	Label string      `json:"label"`
	Tws   []float64   `json:"tws"`
	Twa   []float64   `json:"twa"`
	Speed [][]float64 `json:"speed"`
}

func Load(file string) (Curve, error) {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return Curve{}, err
	}

	var c Curve
	if err := json.Unmarshal(data, &c); err != nil {
		return Curve{}, err
	}
	if err := c.Validate(); err != nil {
		return Curve{}, err
	}
	return c, nil
}

func (c Curve) Validate() error {
	if len(c.Tws) == 0 || len(c.Twa) == 0 {
		return fmt.Errorf("polar %s: empty wind axes", c.Label)
	}
	if len(c.Speed) != len(c.Twa) {
		return fmt.Errorf("polar %s: %d speed rows for %d wind angles", c.Label, len(c.Speed), len(c.Twa))
	}
	for i, row := range c.Speed {
		if len(row) != len(c.Tws) {
			return fmt.Errorf("polar %s: row %d has %d speeds for %d wind speeds", c.Label, i, len(row), len(c.Tws))
		}
	}
	return nil
}

func interpolationIndex(values []float64, value float64) (int, int, float64) {

	i := 0
	for values[i] < value {
		i++
		if i == len(values) {
			return i - 1, 0, 1
		}
	}

	if i > 0 {
		return i - 1, i, (values[i] - value) / (values[i] - values[i-1])
	}

	return 0, 0, 0
}

// BoatSpeed is the speed in knots the boat makes at a true wind angle
// in degrees and a true wind speed in m/s. Angles fold onto [0, 180]
// and winds beyond the grid clamp to its edge.
func (c Curve) BoatSpeed(twa float64, ws float64) float64 {
	// convert m/s to kts
	ws = ws * 1.9438444924406

	t := twa
	if t < 0 {
		t = -1 * t
	}
	if t > 180 {
		t = 360 - t
	}

	twsIndex0, twsIndex1, twsFactor := interpolationIndex(c.Tws, ws)
	twaIndex0, twaIndex1, twaFactor := interpolationIndex(c.Twa, t)

	ti0 := c.Speed[twaIndex0]
	ti1 := c.Speed[twaIndex1]
	return (ti0[twsIndex0]*twsFactor+ti0[twsIndex1]*(1-twsFactor))*twaFactor +
		(ti1[twsIndex0]*twsFactor+ti1[twsIndex1]*(1-twsFactor))*(1-twaFactor)
}

// Default is the curve the simulator falls back on when no polar file
// is given: a shorthanded ocean racer, strongest on a reach.
func Default() Curve {
	return Curve{
		Label: "imoca",
		Tws:   []float64{0, 4, 8, 12, 16, 20, 25, 30},
		Twa:   []float64{0, 30, 45, 60, 90, 120, 150, 180},
		Speed: [][]float64{
			{0, 0, 0, 0, 0, 0, 0, 0},
			{0, 1.2, 2.4, 3.2, 3.8, 4.1, 4.0, 3.5},
			{0, 3.2, 5.6, 7.0, 7.8, 8.2, 8.0, 7.2},
			{0, 4.4, 7.3, 9.0, 10.1, 10.6, 10.4, 9.3},
			{0, 5.2, 8.6, 10.8, 12.4, 13.4, 13.6, 12.2},
			{0, 4.9, 8.3, 11.0, 13.2, 14.8, 15.6, 14.5},
			{0, 3.6, 6.4, 9.0, 11.4, 13.3, 14.9, 15.2},
			{0, 2.8, 5.1, 7.4, 9.6, 11.4, 13.1, 13.9},
		},
	}
}
