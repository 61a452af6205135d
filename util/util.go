// Package util contains small utility functions shared by the toolkit.
package util

// Clamp returns f bounded to low < f < high
func Clamp(f, low, high float64) float64 {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}
