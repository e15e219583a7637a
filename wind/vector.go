package wind

import "math"

const knotsPerMs = 1.9438444924406

// Vector is a wind sample at a point, in m/s east (U) and north (V)
// components.
type Vector struct {
	U float64 `json:"u"`
	V float64 `json:"v"`
}

// Forecast samples the wind field around the current tick. hours moves
// the sample into the future of the tick, lat and lon move it in space.
type Forecast func(lat, lon, hours float64) Vector

// Toward converts a wind vector to the heading the wind blows toward,
// in race degrees (counterclockwise from east). A wind landing on the
// seam folds to 0, never 360; the tack engine compares this value
// against cone bounds that can sit on the seam, so which of the two
// names it gets matters.
func Toward(u, v float64) float64 {
	φ := math.Atan2(v, u) * 180.0 / math.Pi
	if φ < 0 {
		φ = -φ
	} else {
		φ = φ + 180.0
	}
	if φ == 0.0 {
		return φ
	}
	return 360.0 - φ
}

func (v Vector) Toward() float64 {
	return Toward(v.U, v.V)
}

// From is the meteorological direction the wind comes from, in compass
// degrees.
func (v Vector) From() float64 {
	d := v.Speed()
	if d == 0 {
		return 0
	}
	return vectorToDegrees(v.U, v.V, d)
}

// Speed is the wind speed in m/s.
func (v Vector) Speed() float64 {
	return math.Sqrt(v.U*v.U + v.V*v.V)
}

// Knots is the wind speed in knots.
func (v Vector) Knots() float64 {
	return v.Speed() * knotsPerMs
}

// Constant returns a forecast that ignores place and time, for tests
// and for ticks that carry their own wind sample.
func Constant(v Vector) Forecast {
	return func(lat, lon, hours float64) Vector {
		return v
	}
}

// Twa is the true wind angle for a boat heading, in (-180, 180].
// heading and wind are both compass degrees, wind the from direction.
func Twa(heading, wind float64) float64 {
	twa := wind - heading
	if twa <= -180 {
		twa += 360
	}
	if twa > 180 {
		twa -= 360
	}

	return twa
}

// Heading is the compass heading sailing a true wind angle under the
// given wind from direction.
func Heading(twa, wind float64) float64 {
	heading := wind - twa
	if heading < 0 {
		heading += 360
	}
	if heading >= 360 {
		heading -= 360
	}

	return heading
}
