// Package chart holds the series model shared by the layout, geometry and
// render packages: named value columns tagged with a render variant and an
// axis assignment.
//
// All series attached to one chart must have the same length and index
// alignment as the shared time/category axis. The package does not verify
// this; mismatched lengths are a caller bug.
package chart

import "math"

// Variant selects how a series is drawn.
type Variant int

const (
	VariantLine Variant = iota
	VariantArea
	VariantBar
	// VariantThreshold renders as a plain line and additionally acts as a
	// clip boundary: portions of other series above it get redrawn in a
	// highlight color.
	VariantThreshold
)

func (v Variant) String() string {
	switch v {
	case VariantLine:
		return "line"
	case VariantArea:
		return "area"
	case VariantBar:
		return "bar"
	case VariantThreshold:
		return "threshold"
	}
	return "unknown"
}

// AxisSide assigns a series to the left (primary) or right (secondary) Y axis.
type AxisSide int

const (
	AxisPrimary AxisSide = iota
	AxisSecondary
)

type Series struct {
	Name    string
	Color   string
	Variant Variant
	Axis    AxisSide
	Values  []float64 // NaN marks a gap
}

// Classified is the partition of a chart's series produced by Classify.
type Classified struct {
	// Stacked and Rest partition the series when stacking was requested:
	// area variants participate in the stack, everything else draws on top
	// of it. Without stacking, Stacked is empty and Rest holds everything.
	Stacked []*Series
	Rest    []*Series

	// Left and Right always partition by axis assignment.
	Left  []*Series
	Right []*Series
}

// Classify partitions series by variant and axis. The split is done once
// here so rendering code can dispatch on the groups instead of re-inspecting
// tags at every draw site.
func Classify(series []*Series, stacked bool) Classified {
	var c Classified
	for _, s := range series {
		if stacked && s.Variant == VariantArea {
			c.Stacked = append(c.Stacked, s)
		} else {
			c.Rest = append(c.Rest, s)
		}
		if s.Axis == AxisSecondary {
			c.Right = append(c.Right, s)
		} else {
			c.Left = append(c.Left, s)
		}
	}
	return c
}

// HasSecondary reports whether any series was assigned to the right axis.
func (c Classified) HasSecondary() bool { return len(c.Right) > 0 }

func finiteMinMax(values []float64, lo, hi float64) (float64, float64) {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if math.IsNaN(lo) || v < lo {
			lo = v
		}
		if math.IsNaN(hi) || v > hi {
			hi = v
		}
	}
	return lo, hi
}
