package chart

import "math"

// Domain is the [Min,Max] value extent a Y scale is built from.
type Domain struct {
	Min float64
	Max float64

	// HasNegative is set when Min dipped below zero. It controls whether a
	// bottom inset is reserved for negative-going bars/areas and whether a
	// zero baseline gets drawn.
	HasNegative bool
}

// Empty reports the degenerate all-zero/no-data extent. Renderers show a
// blank frame for it instead of building a scale.
func (d Domain) Empty() bool { return d.Min == 0 && d.Max == 0 }

// DomainOptions control ComputeDomain. Hint bounds use NaN for "unset".
type DomainOptions struct {
	Stacked bool
	HintMin float64
	HintMax float64
}

// DefaultDomainOptions returns options with both hint bounds unset.
func DefaultDomainOptions() DomainOptions {
	return DomainOptions{HintMin: math.NaN(), HintMax: math.NaN()}
}

// ComputeDomain computes the Y extent over the given series.
//
// Unstacked, it is the plain min/max over all finite values. With stacking,
// area-variant series accumulate per position: the positive values sum
// upward and the negative values sum downward independently, so the extent
// covers the tallest positive stack and the deepest negative stack, and zero
// is always included so a baseline stays drawable. Non-stacked series still
// contribute their raw values.
//
// A hint bound, when set, only ever widens the computed extent.
func ComputeDomain(series []*Series, opts DomainOptions) Domain {
	lo, hi := math.NaN(), math.NaN()

	if opts.Stacked {
		c := Classify(series, true)
		posSum, negSum := divergingSums(c.Stacked)
		lo, hi = finiteMinMax(negSum, lo, hi)
		lo, hi = finiteMinMax(posSum, lo, hi)
		for _, s := range c.Rest {
			lo, hi = finiteMinMax(s.Values, lo, hi)
		}
		// zero baseline must stay representable
		if math.IsNaN(lo) || lo > 0 {
			lo = 0
		}
		if math.IsNaN(hi) || hi < 0 {
			hi = 0
		}
	} else {
		for _, s := range series {
			lo, hi = finiteMinMax(s.Values, lo, hi)
		}
		if math.IsNaN(lo) {
			lo = 0
		}
		if math.IsNaN(hi) {
			hi = 0
		}
	}

	if !math.IsNaN(opts.HintMin) && opts.HintMin < lo {
		lo = opts.HintMin
	}
	if !math.IsNaN(opts.HintMax) && opts.HintMax > hi {
		hi = opts.HintMax
	}

	return Domain{Min: lo, Max: hi, HasNegative: lo < 0}
}

// divergingSums returns, for every axis position, the sum of positive values
// and the sum of negative values over the stacked series. NaN values
// contribute nothing.
func divergingSums(stacked []*Series) (pos, neg []float64) {
	var n int
	for _, s := range stacked {
		if len(s.Values) > n {
			n = len(s.Values)
		}
	}
	pos = make([]float64, n)
	neg = make([]float64, n)
	for _, s := range stacked {
		for i, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			if v >= 0 {
				pos[i] += v
			} else {
				neg[i] += v
			}
		}
	}
	return pos, neg
}
