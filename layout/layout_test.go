package layout

import (
	"math"
	"testing"
)

var standardOrder = []BlockKind{BlockTitle, BlockChart, BlockLegend}

func baseOptions() Options {
	return Options{
		ShowAxes:    true,
		SeriesCount: 4,
		ChartWidth:  600,
		ChartHeight: 300,
	}
}

func TestComputeDegenerate(t *testing.T) {
	opt := baseOptions()
	opt.SeriesCount = 0
	if Compute(standardOrder, opt) != nil {
		t.Error("zero series must yield a nil layout")
	}

	opt = baseOptions()
	opt.ChartHeight = 0
	if Compute(standardOrder, opt) != nil {
		t.Error("zero chart height must yield a nil layout")
	}
}

// TotalHeight must equal top padding plus each placed block's height plus the
// gaps between placed blocks, whatever the combination.
func TestHeightAdditivity(t *testing.T) {
	tests := []struct {
		name  string
		order []BlockKind
		title string
	}{
		{"all blocks", standardOrder, "energy"},
		{"no title text", standardOrder, ""},
		{"chart only", []BlockKind{BlockChart}, ""},
		{"chart then legend", []BlockKind{BlockChart, BlockLegend}, ""},
		{"legend above chart", []BlockKind{BlockLegend, BlockChart}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := baseOptions()
			opt.Title = tt.title

			l := Compute(tt.order, opt)
			if l == nil {
				t.Fatal("nil layout")
			}

			want := TopPadding
			placed := 0
			for _, kind := range tt.order {
				if kind == BlockTitle && tt.title == "" {
					continue
				}
				if placed > 0 {
					want += BlockGap
				}
				placed++
				switch kind {
				case BlockTitle:
					want += TitleHeight
				case BlockChart:
					want += opt.ChartHeight + BottomAxisHeight
				case BlockLegend:
					rows := math.Ceil(float64(opt.SeriesCount) / float64(DefaultLegendColumns))
					want += rows * LegendRowHeight
				}
			}
			if l.TotalHeight != want {
				t.Errorf("TotalHeight = %v, want %v", l.TotalHeight, want)
			}
		})
	}
}

// Adding a title shifts everything below by exactly the title height plus one
// gap, and leaves X origins alone.
func TestTitleShiftsBlocksDown(t *testing.T) {
	opt := baseOptions()
	without := Compute(standardOrder, opt)

	opt.Title = "consumption 2024"
	with := Compute(standardOrder, opt)

	shift := TitleHeight + BlockGap
	if got := with.Chart.Y - without.Chart.Y; got != shift {
		t.Errorf("chart shifted by %v, want %v", got, shift)
	}
	if got := with.Legend.Y - without.Legend.Y; got != shift {
		t.Errorf("legend shifted by %v, want %v", got, shift)
	}
	if got := with.AxisX.Y - without.AxisX.Y; got != shift {
		t.Errorf("x axis shifted by %v, want %v", got, shift)
	}
	if with.Chart.X != without.Chart.X || with.Legend.X != without.Legend.X {
		t.Error("x origins must not change with a title")
	}
}

func TestAxisPlacement(t *testing.T) {
	opt := baseOptions()
	opt.Title = "t"
	opt.SecondYAxis = true

	l := Compute(standardOrder, opt)

	if l.Chart.X != LeftAxisWidth {
		t.Errorf("chart x = %v, want left axis width %v", l.Chart.X, LeftAxisWidth)
	}
	if l.AxisYLeft == nil || *l.AxisYLeft != (Point{X: l.Chart.X, Y: l.Chart.Y}) {
		t.Errorf("left axis origin = %v", l.AxisYLeft)
	}
	if l.AxisX == nil || *l.AxisX != (Point{X: l.Chart.X, Y: l.Chart.Y + l.Chart.Height}) {
		t.Errorf("x axis origin = %v", l.AxisX)
	}
	if l.AxisYRight == nil || *l.AxisYRight != (Point{X: l.Chart.X + l.Chart.Width, Y: l.Chart.Y}) {
		t.Errorf("right axis origin = %v", l.AxisYRight)
	}
	if want := LeftAxisWidth + opt.ChartWidth + RightAxisWidth + OuterRightPadding; l.TotalWidth != want {
		t.Errorf("TotalWidth = %v, want %v", l.TotalWidth, want)
	}
}

func TestAxesHidden(t *testing.T) {
	opt := baseOptions()
	opt.ShowAxes = false

	l := Compute([]BlockKind{BlockChart}, opt)

	if l.Chart.X != 0 {
		t.Errorf("chart x = %v, want 0 without axes", l.Chart.X)
	}
	if l.AxisYLeft != nil || l.AxisX != nil {
		t.Error("axis origins must be absent when axes are hidden")
	}
	if want := TopPadding + opt.ChartHeight; l.TotalHeight != want {
		t.Errorf("TotalHeight = %v, want %v (no bottom axis)", l.TotalHeight, want)
	}
}

func TestLegendRows(t *testing.T) {
	tests := []struct {
		series, columns, wantRows int
	}{
		{1, 3, 1},
		{3, 3, 1},
		{4, 3, 2},
		{7, 3, 3},
		{5, 0, 2}, // default column count
		{2, 1, 2},
	}
	for _, tt := range tests {
		opt := baseOptions()
		opt.SeriesCount = tt.series
		opt.LegendColumns = tt.columns
		l := Compute([]BlockKind{BlockChart, BlockLegend}, opt)
		if l.LegendRows != tt.wantRows {
			t.Errorf("series=%d columns=%d: rows = %d, want %d", tt.series, tt.columns, l.LegendRows, tt.wantRows)
		}
	}
}
