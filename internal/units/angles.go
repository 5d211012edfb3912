// Package units provides shared angle conversion and clamping helpers
// used by the geometry and scoring packages.
package units

import "math"

// Degrees converts an angle in radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// Radians converts an angle in degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// FoldDegrees normalises the absolute difference between two headings into
// [0, 180]. Differences beyond 180° wrap the other way around the circle.
func FoldDegrees(diff float64) float64 {
	diff = math.Abs(diff)
	diff = math.Mod(diff, 360.0)
	if diff > 180.0 {
		diff = 360.0 - diff
	}
	return diff
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
