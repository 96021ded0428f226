package chart

import (
	"math"
	"testing"

	"github.com/go-graphite/chartkit/tests/compare"
)

func nan() float64 { return math.NaN() }

func TestComputeDomainUnstacked(t *testing.T) {
	tests := []struct {
		name   string
		series []*Series
		opts   DomainOptions
		want   Domain
	}{
		{
			name: "single series",
			series: []*Series{
				{Name: "a", Values: []float64{10, 25, 15, 30, 22, 28, 35}},
			},
			opts: DefaultDomainOptions(),
			want: Domain{Min: 10, Max: 35},
		},
		{
			name: "two series merged",
			series: []*Series{
				{Name: "a", Values: []float64{5, 6, 7}},
				{Name: "b", Values: []float64{-2, 3, 12}},
			},
			opts: DefaultDomainOptions(),
			want: Domain{Min: -2, Max: 12, HasNegative: true},
		},
		{
			name: "gaps ignored",
			series: []*Series{
				{Name: "a", Values: []float64{nan(), 4, nan(), 9}},
			},
			opts: DefaultDomainOptions(),
			want: Domain{Min: 4, Max: 9},
		},
		{
			name:   "no data",
			series: nil,
			opts:   DefaultDomainOptions(),
			want:   Domain{Min: 0, Max: 0},
		},
		{
			name: "all gaps",
			series: []*Series{
				{Name: "a", Values: []float64{nan(), nan()}},
			},
			opts: DefaultDomainOptions(),
			want: Domain{Min: 0, Max: 0},
		},
		{
			name: "hint widens",
			series: []*Series{
				{Name: "a", Values: []float64{5, 10}},
			},
			opts: DomainOptions{HintMin: 0, HintMax: 20},
			want: Domain{Min: 0, Max: 20},
		},
		{
			name: "hint never narrows",
			series: []*Series{
				{Name: "a", Values: []float64{-5, 50}},
			},
			opts: DomainOptions{HintMin: 0, HintMax: 20},
			want: Domain{Min: -5, Max: 50, HasNegative: true},
		},
		{
			name: "half-open hint",
			series: []*Series{
				{Name: "a", Values: []float64{5, 10}},
			},
			opts: DomainOptions{HintMin: math.NaN(), HintMax: 100},
			want: Domain{Min: 5, Max: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDomain(tt.series, tt.opts)
			if !compare.NearlyEqual(got.Min, tt.want.Min) || !compare.NearlyEqual(got.Max, tt.want.Max) {
				t.Errorf("ComputeDomain() = [%v,%v], want [%v,%v]", got.Min, got.Max, tt.want.Min, tt.want.Max)
			}
			if got.HasNegative != tt.want.HasNegative {
				t.Errorf("HasNegative = %v, want %v", got.HasNegative, tt.want.HasNegative)
			}
		})
	}
}

func TestComputeDomainStackedDiverging(t *testing.T) {
	// two stacked area series [5,-3,8] and [2,4,-1]:
	// positive sums are [7,4,8], negative sums are [0,-3,-1]
	series := []*Series{
		{Name: "a", Variant: VariantArea, Values: []float64{5, -3, 8}},
		{Name: "b", Variant: VariantArea, Values: []float64{2, 4, -1}},
	}

	got := ComputeDomain(series, DomainOptions{Stacked: true, HintMin: nan(), HintMax: nan()})
	if got.Min != -3 || got.Max != 8 {
		t.Fatalf("stacked domain = [%v,%v], want [-3,8]", got.Min, got.Max)
	}
	if !got.HasNegative {
		t.Fatal("HasNegative = false, want true")
	}
}

func TestComputeDomainStackedIncludesZero(t *testing.T) {
	// all-positive stacks must still reach down to the zero baseline
	series := []*Series{
		{Name: "a", Variant: VariantArea, Values: []float64{5, 6}},
		{Name: "b", Variant: VariantArea, Values: []float64{2, 3}},
	}
	got := ComputeDomain(series, DomainOptions{Stacked: true, HintMin: nan(), HintMax: nan()})
	if got.Min != 0 || got.Max != 9 {
		t.Fatalf("domain = [%v,%v], want [0,9]", got.Min, got.Max)
	}

	// and all-negative stacks up to it
	series = []*Series{
		{Name: "a", Variant: VariantArea, Values: []float64{-5, -6}},
	}
	got = ComputeDomain(series, DomainOptions{Stacked: true, HintMin: nan(), HintMax: nan()})
	if got.Min != -6 || got.Max != 0 {
		t.Fatalf("domain = [%v,%v], want [-6,0]", got.Min, got.Max)
	}
}

func TestComputeDomainStackedZeroInclusion(t *testing.T) {
	// any mixed-sign stacked input must satisfy min <= 0 <= max
	inputs := [][][]float64{
		{{1, -1}, {2, -2}},
		{{100, 50}, {-0.5, 3}},
		{{-7}, {7}},
	}
	for _, vals := range inputs {
		var series []*Series
		for _, v := range vals {
			series = append(series, &Series{Variant: VariantArea, Values: v})
		}
		got := ComputeDomain(series, DomainOptions{Stacked: true, HintMin: nan(), HintMax: nan()})
		if got.Min > 0 || got.Max < 0 {
			t.Errorf("domain [%v,%v] does not include zero for %v", got.Min, got.Max, vals)
		}
	}
}

func TestComputeDomainStackedWithUnstackedSeries(t *testing.T) {
	// a line drawn on top of the stack still widens the extent
	series := []*Series{
		{Name: "a", Variant: VariantArea, Values: []float64{5, 5}},
		{Name: "peak", Variant: VariantLine, Values: []float64{40, -12}},
	}
	got := ComputeDomain(series, DomainOptions{Stacked: true, HintMin: nan(), HintMax: nan()})
	if got.Min != -12 || got.Max != 40 {
		t.Fatalf("domain = [%v,%v], want [-12,40]", got.Min, got.Max)
	}
}

func TestClassify(t *testing.T) {
	line := &Series{Name: "l", Variant: VariantLine}
	area := &Series{Name: "a", Variant: VariantArea}
	right := &Series{Name: "r", Variant: VariantLine, Axis: AxisSecondary}

	c := Classify([]*Series{line, area, right}, true)
	if len(c.Stacked) != 1 || c.Stacked[0] != area {
		t.Errorf("Stacked = %v, want [a]", names(c.Stacked))
	}
	if len(c.Rest) != 2 {
		t.Errorf("Rest = %v, want [l r]", names(c.Rest))
	}
	if len(c.Right) != 1 || !c.HasSecondary() {
		t.Errorf("Right = %v, want [r]", names(c.Right))
	}

	c = Classify([]*Series{line, area, right}, false)
	if len(c.Stacked) != 0 || len(c.Rest) != 3 {
		t.Errorf("unstacked partition = %v / %v", names(c.Stacked), names(c.Rest))
	}
}

func names(series []*Series) []string {
	out := make([]string, len(series))
	for i, s := range series {
		out[i] = s.Name
	}
	return out
}
