// Package heading holds the wrap arithmetic the pilot steers by.
// Headings are race degrees: counterclockwise from east, 90 is north.
package heading

// PlusWrap returns a + b wrapped into (0, 360]. A sum landing exactly
// on 360 stays 360.
func PlusWrap(a, b float64) float64 {
	res := a + b
	if res > 360.0 {
		return res - 360.0
	}
	return res
}

// MinusWrap returns a - b wrapped into [0, 360).
func MinusWrap(a, b float64) float64 {
	res := a - b
	if res < 0.0 {
		return res + 360.0
	}
	return res
}
