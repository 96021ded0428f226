// Package geom turns scaled (x, y) positions into path descriptions the
// painting layer draws: polylines with gap breaks, closed area rings, bar
// rectangles and threshold clip regions. Everything is emitted in absolute
// canvas coordinates via a caller-supplied offset.
package geom

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type Op int

const (
	MoveTo Op = iota
	LineTo
	Close
)

type Command struct {
	Op Op
	X  float64
	Y  float64
}

// Path is an ordered command list. String renders the SVG "d" form.
type Path []Command

func (p Path) String() string {
	var b strings.Builder
	for i, c := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch c.Op {
		case MoveTo:
			fmt.Fprintf(&b, "M%g %g", c.X, c.Y)
		case LineTo:
			fmt.Fprintf(&b, "L%g %g", c.X, c.Y)
		case Close:
			b.WriteByte('Z')
		}
	}
	return b.String()
}

// MarshalJSON emits the SVG form, which is what path consumers feed to a
// <path d=...> or a canvas Path2D.
func (p Path) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Offset shifts a path into the absolute canvas frame, normally the chart
// rectangle's origin from the layout.
type Offset struct {
	X float64
	Y float64
}

// Line builds a polyline through the given pixel positions. A NaN y breaks
// the path: the next finite point starts a fresh subpath rather than
// interpolating across the gap.
func Line(xs, ys []float64, off Offset) Path {
	var p Path
	pen := false
	for i := range xs {
		if math.IsNaN(ys[i]) || math.IsNaN(xs[i]) {
			pen = false
			continue
		}
		op := LineTo
		if !pen {
			op = MoveTo
			pen = true
		}
		p = append(p, Command{Op: op, X: off.X + xs[i], Y: off.Y + ys[i]})
	}
	return p
}

// Area builds closed rings between an upper and a lower pixel edge. Gaps in
// either edge close the current ring and start a new one after the gap. For
// a plain area the lower edge is the constant baseline; for stacked areas
// both edges come from the stack segments.
func Area(xs, upper, lower []float64, off Offset) Path {
	var p Path
	run := -1 // start of the current contiguous run

	closeRun := func(end int) {
		if run < 0 {
			return
		}
		for i := run; i < end; i++ {
			op := LineTo
			if i == run {
				op = MoveTo
			}
			p = append(p, Command{Op: op, X: off.X + xs[i], Y: off.Y + upper[i]})
		}
		for i := end - 1; i >= run; i-- {
			p = append(p, Command{Op: LineTo, X: off.X + xs[i], Y: off.Y + lower[i]})
		}
		p = append(p, Command{Op: Close})
		run = -1
	}

	for i := range xs {
		if math.IsNaN(upper[i]) || math.IsNaN(lower[i]) || math.IsNaN(xs[i]) {
			closeRun(i)
			continue
		}
		if run < 0 {
			run = i
		}
	}
	closeRun(len(xs))
	return p
}

type RectShape struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bars builds one rectangle per point, spanning from the baseline pixel to
// the value pixel, with a fixed width centered on each x position. NaN
// values produce no rectangle.
func Bars(xs, ys []float64, baseline, width float64, off Offset) []RectShape {
	var rs []RectShape
	for i := range xs {
		if math.IsNaN(ys[i]) || math.IsNaN(xs[i]) {
			continue
		}
		top, bottom := ys[i], baseline
		if top > bottom {
			top, bottom = bottom, top
		}
		rs = append(rs, RectShape{
			X:      off.X + xs[i] - width/2,
			Y:      off.Y + top,
			Width:  width,
			Height: bottom - top,
		})
	}
	return rs
}

// BarConfig sizes categorical bar groups; one source of truth for every slot
// computation.
type BarConfig struct {
	BarWidth        float64
	BarGap          float64
	GroupGap        float64
	InsetLeft       float64
	StackedBarWidth float64
}

var DefaultBarConfig = BarConfig{
	BarWidth:        8,
	BarGap:          2,
	GroupGap:        12,
	InsetLeft:       4,
	StackedBarWidth: 14,
}

// CategorySlot returns the left edge of the bar for one (category, series)
// pair in a grouped categorical chart.
func (c BarConfig) CategorySlot(categoryIndex, seriesIndex, seriesCount int) float64 {
	groupWidth := float64(seriesCount)*c.BarWidth + float64(seriesCount-1)*c.BarGap
	return c.InsetLeft + float64(categoryIndex)*(groupWidth+c.GroupGap) + float64(seriesIndex)*(c.BarWidth+c.BarGap)
}

// StackedSlot returns the left edge of the stacked bar for one category;
// stacked bars share one fixed-width slot per category.
func (c BarConfig) StackedSlot(categoryIndex int) float64 {
	return c.InsetLeft + float64(categoryIndex)*(c.StackedBarWidth+c.GroupGap)
}

// ThresholdClip builds the closed region between a threshold polyline and a
// horizontal floor: down from the floor to the first threshold point, along
// the polyline, and back to the floor at the last one. With the floor at the
// chart bottom the region covers everything below the threshold; with the
// floor at the chart top it covers everything above it, which is the clip
// mask for highlighting exceeding portions of other series. Gaps in the
// threshold collapse to the floor, so nothing is clipped in across a gap.
func ThresholdClip(xs, ys []float64, floorY float64, off Offset) Path {
	var p Path
	pen := false
	for i := range xs {
		y := ys[i]
		if math.IsNaN(y) {
			y = floorY
		}
		if !pen {
			p = append(p, Command{Op: MoveTo, X: off.X + xs[i], Y: off.Y + floorY})
			pen = true
		}
		p = append(p, Command{Op: LineTo, X: off.X + xs[i], Y: off.Y + y})
	}
	if !pen {
		return nil
	}
	last := len(xs) - 1
	p = append(p,
		Command{Op: LineTo, X: off.X + xs[last], Y: off.Y + floorY},
		Command{Op: Close},
	)
	return p
}
