// Package scale builds the value→pixel mappings charts draw against: linear
// scales for value axes and calendar-aware time scales for the X axis. All
// scales are pure: domain and pixel range in, mapping out, nothing cached.
package scale

import "math"

// We accept values fractionally outside of nominal limits so rounding errors
// don't cause weird effects; at plot resolutions errors this small are never
// visible.
const floatEpsilon = 0.00000000001

// Linear maps a [Min,Max] value domain onto a pixel range. Following the
// usual Y-axis convention the domain max maps to the first range bound and
// the domain min to the second, so passing (top, bottom) pixels yields an
// inverted axis.
type Linear struct {
	Min, Max float64
	p0, p1   float64
}

// NewLinear builds a linear scale. With nice set, both domain bounds are
// rounded outward to multiples of a 1/2/5-series step so tick labels land on
// round numbers. The second return is false for the degenerate [0,0] domain,
// which callers render as an empty frame rather than divide by zero.
func NewLinear(min, max, p0, p1 float64, nice bool) (*Linear, bool) {
	if min == 0 && max == 0 {
		return nil, false
	}
	if max < min {
		min, max = max, min
	}
	if max == min {
		max = min + 1
	}
	if nice {
		step := niceStep(max-min, defaultTickCount)
		min = step * math.Floor(min/step+floatEpsilon)
		max = step * math.Ceil(max/step-floatEpsilon)
	}
	return &Linear{Min: min, Max: max, p0: p0, p1: p1}, true
}

// Pos maps a value to its pixel position: Pos(Max)==p0, Pos(Min)==p1.
func (l *Linear) Pos(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	return l.p1 + (v-l.Min)/(l.Max-l.Min)*(l.p0-l.p1)
}

// Invert maps a pixel position back to a value, for hover lookups.
func (l *Linear) Invert(p float64) float64 {
	return l.Min + (p-l.p1)/(l.p0-l.p1)*(l.Max-l.Min)
}

// Ticks returns approximately n round values inside the domain, strictly
// increasing and stepped by a 1/2/5-series increment.
func (l *Linear) Ticks(n int) []float64 {
	if n < 1 {
		n = 1
	}
	step := niceStep(l.Max-l.Min, n)
	var ticks []float64
	v := step * math.Ceil(l.Min/step-floatEpsilon)
	for v <= l.Max+step*floatEpsilon {
		ticks = append(ticks, v)
		next := v + step
		if next == v {
			// step vanished against the magnitude of v
			break
		}
		v = next
	}
	return ticks
}

const defaultTickCount = 5

// niceStep picks the smallest step from the 1/2/5 decades that divides span
// into at most n intervals.
func niceStep(span float64, n int) float64 {
	raw := span / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	norm := raw / mag
	switch {
	case norm > 5:
		return 10 * mag
	case norm > 2:
		return 5 * mag
	case norm > 1:
		return 2 * mag
	default:
		return mag
	}
}
