// Package compare has float helpers shared by tests across the repository.
// NaN compares equal to NaN here: gaps are data, not errors.
package compare

import "math"

const eps = 0.0000000001

// NearlyEqual reports whether two floats match within eps, treating NaN==NaN
// and same-signed infinities as equal.
func NearlyEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if math.IsInf(a, 1) && math.IsInf(b, 1) {
		return true
	}
	if math.IsInf(a, -1) && math.IsInf(b, -1) {
		return true
	}
	return math.Abs(a-b) < eps
}

// NearlyEqualSlice compares two float slices element-wise with NearlyEqual.
func NearlyEqualSlice(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !NearlyEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// EqualInts compares two int slices.
func EqualInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
