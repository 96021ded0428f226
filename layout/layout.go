// Package layout computes absolute pixel positions for every block of a
// chart: title, plot area, axes and legend. A single top-down cursor places
// the blocks, so every coordinate is absolute within one shared canvas and
// no block ever needs a nested coordinate frame.
package layout

import "math"

// BlockKind names a layout block in the caller-declared vertical order.
type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockChart
	BlockLegend
)

// Every pixel constant used by the layout lives here; nothing below
// recomputes these inline.
const (
	TopPadding        = 8.0
	BlockGap          = 12.0
	TitleHeight       = 24.0
	LeftAxisWidth     = 48.0
	RightAxisWidth    = 48.0
	BottomAxisHeight  = 20.0
	LegendRowHeight   = 18.0
	OuterRightPadding = 8.0

	DefaultLegendColumns = 3
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Options carries the per-block size parameters for one Compute call. Every
// flag's effect:
//
//	Title          non-empty places a title block; empty skips it entirely
//	ShowAxes       reserves LeftAxisWidth on the left and BottomAxisHeight
//	               under the chart, and emits axis origins
//	SecondYAxis    reserves RightAxisWidth and emits the right axis origin
//	SeriesCount    legend row computation; zero means degenerate input
//	LegendColumns  legend columns, DefaultLegendColumns when <= 0
//	ChartWidth/Height  plot area size in pixels
type Options struct {
	Title         string
	ShowAxes      bool
	SecondYAxis   bool
	SeriesCount   int
	LegendColumns int
	ChartWidth    float64
	ChartHeight   float64
}

// Layout holds the absolute position of every present block. Pointers are
// nil for blocks that were not in the order or were skipped.
type Layout struct {
	TotalWidth  float64 `json:"totalWidth"`
	TotalHeight float64 `json:"totalHeight"`

	Title      *Point `json:"title,omitempty"`
	Chart      *Rect  `json:"chart,omitempty"`
	AxisYLeft  *Point `json:"axisYLeft,omitempty"`
	AxisYRight *Point `json:"axisYRight,omitempty"`
	AxisX      *Point `json:"axisX,omitempty"`
	Legend     *Point `json:"legend,omitempty"`
	LegendRows int    `json:"legendRows,omitempty"`
}

// Compute walks the block order top to bottom and assigns each block its
// rectangle. Returns nil for degenerate input (no series or a non-positive
// chart size); the caller renders an empty frame for that.
func Compute(order []BlockKind, opt Options) *Layout {
	if opt.SeriesCount <= 0 || opt.ChartWidth <= 0 || opt.ChartHeight <= 0 {
		return nil
	}

	chartX := 0.0
	if opt.ShowAxes {
		chartX = LeftAxisWidth
	}

	l := &Layout{}
	cursor := TopPadding
	placed := 0

	for _, kind := range order {
		if kind == BlockTitle && opt.Title == "" {
			continue
		}
		if placed > 0 {
			cursor += BlockGap
		}
		placed++

		switch kind {
		case BlockTitle:
			l.Title = &Point{X: chartX, Y: cursor}
			cursor += TitleHeight

		case BlockChart:
			l.Chart = &Rect{X: chartX, Y: cursor, Width: opt.ChartWidth, Height: opt.ChartHeight}
			if opt.ShowAxes {
				l.AxisYLeft = &Point{X: chartX, Y: cursor}
				l.AxisX = &Point{X: chartX, Y: cursor + opt.ChartHeight}
				if opt.SecondYAxis {
					l.AxisYRight = &Point{X: chartX + opt.ChartWidth, Y: cursor}
				}
			}
			cursor += opt.ChartHeight
			if opt.ShowAxes {
				cursor += BottomAxisHeight
			}

		case BlockLegend:
			columns := opt.LegendColumns
			if columns <= 0 {
				columns = DefaultLegendColumns
			}
			rows := int(math.Ceil(float64(opt.SeriesCount) / float64(columns)))
			l.Legend = &Point{X: chartX, Y: cursor}
			l.LegendRows = rows
			cursor += float64(rows) * LegendRowHeight
		}
	}

	l.TotalHeight = cursor
	l.TotalWidth = chartX + opt.ChartWidth + OuterRightPadding
	if opt.ShowAxes && opt.SecondYAxis {
		l.TotalWidth += RightAxisWidth
	}
	return l
}
