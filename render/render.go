// Package render assembles a complete graph description from raw series:
// downsampling, classification, domains, scales, block layout, stack
// offsets, paths and axis ticks. The result is a Graph of absolute pixel
// geometry that the JSON marshaler hands to SVG/canvas consumers and the
// cairo backend paints directly.
package render

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tebeka/strftime"

	"github.com/go-graphite/chartkit/chart"
	"github.com/go-graphite/chartkit/downsample"
	"github.com/go-graphite/chartkit/geom"
	"github.com/go-graphite/chartkit/layout"
	"github.com/go-graphite/chartkit/scale"
)

// HighlightColor is used for the threshold-exceeding redraw of series.
const HighlightColor = "red"

const yTickCount = 5

// Request describes one graph to build. Timestamps and every series' Values
// must have equal length; the engine indexes them together and does not
// check.
type Request struct {
	Title  string
	Width  float64
	Height float64

	Timestamps []time.Time
	Series     []*chart.Series

	Stacked    bool
	ShowAxes   bool
	HideLegend bool
	LegendCols int

	Strategy  downsample.Strategy
	MaxPoints int

	// YMin/YMax widen the computed domain when set; NaN means unset.
	YMin float64
	YMax float64
}

// NewRequest returns a request with the usual defaults: axes and legend on,
// no downsampling, unset domain hints.
func NewRequest() Request {
	return Request{
		Width:    600,
		Height:   300,
		ShowAxes: true,
		YMin:     math.NaN(),
		YMax:     math.NaN(),
	}
}

// Element is one drawable item: a path for lines and areas, rectangles for
// bars. Highlight elements repeat another series' path; consumers draw them
// clipped to the graph's threshold region.
type Element struct {
	Name      string           `json:"name"`
	Color     string           `json:"color"`
	Kind      string           `json:"kind"`
	Secondary bool             `json:"secondary,omitempty"`
	Path      geom.Path        `json:"path,omitempty"`
	Rects     []geom.RectShape `json:"rects,omitempty"`
}

// AxisTick is one axis label at an absolute pixel position along its axis.
type AxisTick struct {
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// LegendEntry is one legend row item.
type LegendEntry struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Graph is the assembled geometry of one chart, everything in absolute
// canvas pixels.
type Graph struct {
	Layout *layout.Layout `json:"layout"`
	Title  string         `json:"title,omitempty"`

	Elements []Element `json:"elements"`

	XTicks      []AxisTick `json:"xTicks,omitempty"`
	YTicksLeft  []AxisTick `json:"yTicksLeft,omitempty"`
	YTicksRight []AxisTick `json:"yTicksRight,omitempty"`

	// ZeroY is the baseline pixel row, present when the domain includes
	// negative values.
	ZeroY *float64 `json:"zeroY,omitempty"`

	// ThresholdClip is the closed region above the first threshold series;
	// highlight elements are drawn clipped to it.
	ThresholdClip geom.Path `json:"thresholdClip,omitempty"`

	Legend []LegendEntry `json:"legend,omitempty"`
}

// Build runs the full assembly pipeline. Degenerate input (no series, no
// points, an all-zero domain, a single timestamp) yields (nil, nil): the
// caller paints an empty frame.
func Build(req Request) (*Graph, error) {
	ts, series := reduceInput(req)
	n := len(ts)
	if n < 2 || len(series) == 0 {
		return nil, nil
	}

	cls := chart.Classify(series, req.Stacked)

	domOpts := chart.DomainOptions{Stacked: req.Stacked, HintMin: req.YMin, HintMax: req.YMax}
	dom := chart.ComputeDomain(cls.Left, domOpts)
	if dom.Empty() {
		return nil, nil
	}

	order := []layout.BlockKind{layout.BlockTitle, layout.BlockChart}
	if !req.HideLegend {
		order = append(order, layout.BlockLegend)
	}
	l := layout.Compute(order, layout.Options{
		Title:         req.Title,
		ShowAxes:      req.ShowAxes,
		SecondYAxis:   cls.HasSecondary(),
		SeriesCount:   len(series),
		LegendColumns: req.LegendCols,
		ChartWidth:    req.Width,
		ChartHeight:   req.Height,
	})
	if l == nil {
		return nil, nil
	}

	yLeft, ok := scale.NewLinear(dom.Min, dom.Max, 0, req.Height, true)
	if !ok {
		return nil, nil
	}
	xScale, ok := scale.NewTime(ts[0], ts[n-1], 0, req.Width)
	if !ok {
		return nil, nil
	}

	var yRight *scale.Linear
	if cls.HasSecondary() {
		rdom := chart.ComputeDomain(cls.Right, chart.DefaultDomainOptions())
		if !rdom.Empty() {
			yRight, _ = scale.NewLinear(rdom.Min, rdom.Max, 0, req.Height, true)
		}
	}

	off := geom.Offset{X: l.Chart.X, Y: l.Chart.Y}
	xs := make([]float64, n)
	for i, at := range ts {
		xs[i] = xScale.Pos(at)
	}
	baseline := clamp(yLeft.Pos(0), 0, req.Height)

	g := &Graph{Layout: l, Title: req.Title}

	// stacked areas paint first so everything else draws on top
	for si, segs := range chart.DivergingStack(cls.Stacked) {
		s := cls.Stacked[si]
		upper := make([]float64, n)
		lower := make([]float64, n)
		for i := range segs[:n] {
			upper[i] = yLeft.Pos(segs[i].Upper)
			lower[i] = yLeft.Pos(segs[i].Lower)
		}
		g.Elements = append(g.Elements, Element{
			Name:  s.Name,
			Color: s.Color,
			Kind:  chart.VariantArea.String(),
			Path:  geom.Area(xs, upper, lower, off),
		})
	}

	var threshold *chart.Series
	for _, s := range cls.Rest {
		sc := yLeft
		secondary := false
		if s.Axis == chart.AxisSecondary && yRight != nil {
			sc = yRight
			secondary = true
		}
		ys := yPixels(s.Values[:n], sc)

		el := Element{Name: s.Name, Color: s.Color, Kind: s.Variant.String(), Secondary: secondary}
		switch s.Variant {
		case chart.VariantArea:
			flat := make([]float64, n)
			for i := range flat {
				flat[i] = baseline
			}
			el.Path = geom.Area(xs, ys, flat, off)
		case chart.VariantBar:
			el.Rects = geom.Bars(xs, ys, baseline, geom.DefaultBarConfig.BarWidth, off)
		default:
			el.Path = geom.Line(xs, ys, off)
			if s.Variant == chart.VariantThreshold && threshold == nil {
				threshold = s
				g.ThresholdClip = geom.ThresholdClip(xs, ys, 0, off)
			}
		}
		g.Elements = append(g.Elements, el)
	}

	if threshold != nil {
		g.Elements = append(g.Elements, highlightElements(cls, xs, yLeft, yRight, off, n)...)
	}

	if req.ShowAxes {
		g.YTicksLeft = yTicks(yLeft, l.Chart.Y)
		if yRight != nil {
			g.YTicksRight = yTicks(yRight, l.Chart.Y)
		}
		g.XTicks = xTicks(xScale, req.Width, l.Chart.X)
	}
	if dom.HasNegative {
		zero := l.Chart.Y + baseline
		g.ZeroY = &zero
	}
	if !req.HideLegend {
		for _, s := range series {
			g.Legend = append(g.Legend, LegendEntry{Name: s.Name, Color: s.Color})
		}
	}

	return g, nil
}

// reduceInput applies the downsampling strategy to the reference column (the
// first series) and trims timestamps and every series to the kept indices.
// The caller's slices are never mutated.
func reduceInput(req Request) ([]time.Time, []*chart.Series) {
	ts, series := req.Timestamps, req.Series
	n := len(ts)
	if n == 0 || len(series) == 0 {
		return ts, series
	}
	if req.Strategy == downsample.None || req.MaxPoints <= 0 || n <= req.MaxPoints {
		return ts, series
	}

	xs := make([]float64, n)
	for i, at := range ts {
		xs[i] = float64(at.UnixMilli())
	}
	idx := downsample.Reduce(xs, series[0].Values, req.Strategy, req.MaxPoints)

	kept := make([]time.Time, len(idx))
	for i, j := range idx {
		kept[i] = ts[j]
	}
	out := make([]*chart.Series, len(series))
	for si, s := range series {
		picked := make([]float64, len(idx))
		for i, j := range idx {
			picked[i] = s.Values[j]
		}
		c := *s
		c.Values = picked
		out[si] = &c
	}
	return kept, out
}

func highlightElements(cls chart.Classified, xs []float64, yLeft, yRight *scale.Linear, off geom.Offset, n int) []Element {
	var els []Element
	for _, s := range cls.Rest {
		if s.Variant == chart.VariantThreshold || s.Variant == chart.VariantBar {
			continue
		}
		sc := yLeft
		if s.Axis == chart.AxisSecondary && yRight != nil {
			sc = yRight
		}
		els = append(els, Element{
			Name:  s.Name,
			Color: HighlightColor,
			Kind:  "highlight",
			Path:  geom.Line(xs, yPixels(s.Values[:n], sc), off),
		})
	}
	return els
}

func yPixels(values []float64, sc *scale.Linear) []float64 {
	ys := make([]float64, len(values))
	for i, v := range values {
		ys[i] = sc.Pos(v)
	}
	return ys
}

func yTicks(sc *scale.Linear, chartY float64) []AxisTick {
	values := sc.Ticks(yTickCount)
	ticks := make([]AxisTick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, AxisTick{Pos: chartY + sc.Pos(v), Label: humanize.Ftoa(v)})
	}
	return ticks
}

func xTicks(sc *scale.Time, chartWidth, chartX float64) []AxisTick {
	count := int(chartWidth / 80)
	if count < 2 {
		count = 2
	}
	var ticks []AxisTick
	for _, tk := range sc.Ticks(count) {
		label, _ := strftime.Format(tk.Format, tk.At)
		ticks = append(ticks, AxisTick{Pos: chartX + sc.Pos(tk.At), Label: label})
	}
	return ticks
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
