package latlon

import "math"

const π = math.Pi

// R is the mean earth radius in meters.
const R = 6371e3

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toRadians(a float64) float64 {
	return a * π / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / π
}

func wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	d1 := d + 360.0
	d2 := d1 - float64(int(d1/360.0)*360)
	return d2
}

// ToFixed rounds val to n decimal places.
func ToFixed(val float64, n int) float64 {
	mult := math.Pow10(n)
	return math.Round(val*mult) / mult
}

// Round1 rounds both coordinates to one decimal place, the grid every
// position comparison in the pilot works at.
func (ll LatLon) Round1() LatLon {
	return LatLon{Lat: ToFixed(ll.Lat, 1), Lon: ToFixed(ll.Lon, 1)}
}
