// Package downsample reduces large point series to a bounded number of
// points before layout and path generation. Every strategy returns indices
// into the original arrays, strictly increasing, endpoints always kept, so
// callers can thin several aligned columns with one reduction of the
// reference column.
package downsample

import (
	"math"
	"strings"

	"github.com/ansel1/merry"
)

type Strategy int

const (
	// None keeps every point.
	None Strategy = iota
	// LTTB is Largest-Triangle-Three-Buckets: bucketed decimation keeping
	// the point per bucket that forms the largest triangle with the
	// previously kept point and the next bucket's centroid.
	LTTB
	// Peaks keeps only local extrema. Not bounded by the target; plateaus
	// count as extrema, so flat runs are retained in full.
	Peaks
	// RemovePeaks keeps only the strictly monotonic transition points.
	RemovePeaks
	// NthPoint is uniform stride decimation with an endpoint fix-up.
	NthPoint
)

var ErrUnknownStrategy = merry.New("unknown downsampling strategy")

func (s Strategy) String() string {
	switch s {
	case None:
		return "none"
	case LTTB:
		return "lttb"
	case Peaks:
		return "peaks"
	case RemovePeaks:
		return "removepeaks"
	case NthPoint:
		return "nth"
	}
	return "unknown"
}

// ParseStrategy maps a request parameter to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "lttb":
		return LTTB, nil
	case "peaks":
		return Peaks, nil
	case "removepeaks", "remove-peaks":
		return RemovePeaks, nil
	case "nth", "nthpoint", "nth-point":
		return NthPoint, nil
	}
	return None, ErrUnknownStrategy.WithMessage("unknown downsampling strategy " + s)
}

// Reduce selects the indices to keep from a series of n points. xs supplies
// the x coordinate per point for LTTB's area computation and may be nil, in
// which case the index is used; values is the reference column. A target of
// zero or less, strategy None, or n <= target all yield the identity
// sequence.
func Reduce(xs, values []float64, strategy Strategy, target int) []int {
	n := len(values)
	if n == 0 {
		return []int{}
	}
	if strategy == None || target <= 0 || n <= target {
		return identity(n)
	}

	switch strategy {
	case LTTB:
		return lttb(xs, values, target)
	case Peaks:
		return peaks(values, false)
	case RemovePeaks:
		return peaks(values, true)
	case NthPoint:
		return nthPoint(n, target)
	}
	return identity(n)
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func xAt(xs []float64, i int) float64 {
	if xs == nil {
		return float64(i)
	}
	return xs[i]
}

// lttb implements Largest-Triangle-Three-Buckets over indices. The interior
// points are split into target-2 roughly equal buckets; each bucket
// contributes the point maximizing the triangle area spanned with the
// previously selected point and the average of the next bucket.
func lttb(xs, values []float64, target int) []int {
	n := len(values)
	if target < 3 {
		// can't bucket below first+last, degrade to the endpoints
		return []int{0, n - 1}
	}

	kept := make([]int, 0, target)
	kept = append(kept, 0)

	size := float64(n-2) / float64(target-2)
	prev := 0

	for bucket := 0; bucket < target-2; bucket++ {
		lo := int(float64(bucket)*size) + 1
		hi := int(float64(bucket+1)*size) + 1
		if hi > n-1 {
			hi = n - 1
		}

		// centroid of the following bucket (the last one borrows the final point)
		nextLo := hi
		nextHi := int(float64(bucket+2)*size) + 1
		if nextHi > n {
			nextHi = n
		}
		var cx, cy float64
		var cn int
		for i := nextLo; i < nextHi; i++ {
			if math.IsNaN(values[i]) {
				continue
			}
			cx += xAt(xs, i)
			cy += values[i]
			cn++
		}
		if cn > 0 {
			cx /= float64(cn)
			cy /= float64(cn)
		}

		px := xAt(xs, prev)
		py := values[prev]
		if math.IsNaN(py) {
			py = 0
		}

		best := lo
		bestArea := -1.0
		for i := lo; i < hi; i++ {
			if math.IsNaN(values[i]) {
				continue
			}
			area := math.Abs((px-cx)*(values[i]-py)-(px-xAt(xs, i))*(cy-py)) / 2
			if area > bestArea {
				bestArea = area
				best = i
			}
		}

		kept = append(kept, best)
		prev = best
	}

	if kept[len(kept)-1] != n-1 {
		kept = append(kept, n-1)
	}
	return kept
}

// peaks keeps endpoints plus every interior local extremum; inverted, it
// keeps endpoints plus every interior point that is not one. The ≥/≤
// comparisons deliberately treat plateau points as extrema.
func peaks(values []float64, invert bool) []int {
	n := len(values)
	kept := make([]int, 0, n)
	kept = append(kept, 0)
	for i := 1; i < n-1; i++ {
		isPeak := (values[i] >= values[i-1] && values[i] >= values[i+1]) ||
			(values[i] <= values[i-1] && values[i] <= values[i+1])
		if isPeak != invert {
			kept = append(kept, i)
		}
	}
	if n > 1 {
		kept = append(kept, n-1)
	}
	return kept
}

func nthPoint(n, target int) []int {
	step := n / target
	if step < 1 {
		step = 1
	}
	kept := make([]int, 0, n/step+2)
	for i := 0; i < n; i += step {
		kept = append(kept, i)
	}
	if kept[len(kept)-1] != n-1 {
		kept = append(kept, n-1)
	}
	return kept
}
