package chart

import "math"

// StackSegment is one series' vertical extent at one axis position inside a
// diverging stack. A gap (NaN source value) is marked by NaN bounds.
type StackSegment struct {
	Lower float64
	Upper float64
}

// Gap reports whether the segment came from a missing value.
func (s StackSegment) Gap() bool { return math.IsNaN(s.Lower) }

// DivergingStack computes stack offsets for the given series in order.
//
// Two accumulators run per axis position: values ≥ 0 stack upward from zero
// and values < 0 stack downward, independently. The sign split does not
// depend on series order; within each sign group the given order is
// preserved. The result is indexed [series][position] and each segment spans
// [acc, acc+value] on the accumulator matching the value's sign.
func DivergingStack(series []*Series) [][]StackSegment {
	var n int
	for _, s := range series {
		if len(s.Values) > n {
			n = len(s.Values)
		}
	}

	segments := make([][]StackSegment, len(series))
	posAcc := make([]float64, n)
	negAcc := make([]float64, n)

	for si, s := range series {
		segs := make([]StackSegment, n)
		for i := range segs {
			segs[i] = StackSegment{Lower: math.NaN(), Upper: math.NaN()}
		}
		for i, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			if v >= 0 {
				segs[i] = StackSegment{Lower: posAcc[i], Upper: posAcc[i] + v}
				posAcc[i] += v
			} else {
				segs[i] = StackSegment{Lower: negAcc[i] + v, Upper: negAcc[i]}
				negAcc[i] += v
			}
		}
		segments[si] = segs
	}

	return segments
}
