package scale

import (
	"math"
	"testing"

	"github.com/go-graphite/chartkit/tests/compare"
)

func TestLinearMapping(t *testing.T) {
	// Y-axis convention: max at the top pixel, min at the bottom
	l, ok := NewLinear(0, 100, 10, 210, false)
	if !ok {
		t.Fatal("NewLinear not ok")
	}

	tests := []struct {
		value float64
		pixel float64
	}{
		{100, 10},
		{0, 210},
		{50, 110},
		{25, 160},
	}
	for _, tt := range tests {
		if got := l.Pos(tt.value); !compare.NearlyEqual(got, tt.pixel) {
			t.Errorf("Pos(%v) = %v, want %v", tt.value, got, tt.pixel)
		}
		if got := l.Invert(tt.pixel); !compare.NearlyEqual(got, tt.value) {
			t.Errorf("Invert(%v) = %v, want %v", tt.pixel, got, tt.value)
		}
	}

	if !math.IsNaN(l.Pos(math.NaN())) {
		t.Error("Pos(NaN) should be NaN")
	}
}

func TestLinearDegenerate(t *testing.T) {
	if _, ok := NewLinear(0, 0, 0, 100, true); ok {
		t.Error("zero domain must not build a scale")
	}
	// equal nonzero bounds expand instead
	l, ok := NewLinear(5, 5, 0, 100, false)
	if !ok {
		t.Fatal("NewLinear not ok")
	}
	if l.Max <= l.Min {
		t.Errorf("expanded domain [%v,%v] still empty", l.Min, l.Max)
	}
}

func TestLinearNice(t *testing.T) {
	tests := []struct {
		min, max           float64
		wantMin, wantMax   float64
	}{
		{10, 35, 10, 35},     // already round for step 5
		{12, 94, 0, 100},     // step 20
		{-7, 13, -10, 15},    // step 5 spans zero
		{0.13, 0.87, 0, 1},   // step 0.2
	}
	for _, tt := range tests {
		l, ok := NewLinear(tt.min, tt.max, 0, 100, true)
		if !ok {
			t.Fatalf("NewLinear(%v,%v) not ok", tt.min, tt.max)
		}
		if !compare.NearlyEqual(l.Min, tt.wantMin) || !compare.NearlyEqual(l.Max, tt.wantMax) {
			t.Errorf("nice(%v,%v) = [%v,%v], want [%v,%v]", tt.min, tt.max, l.Min, l.Max, tt.wantMin, tt.wantMax)
		}
		if l.Min > tt.min || l.Max < tt.max {
			t.Errorf("nice(%v,%v) narrowed the domain to [%v,%v]", tt.min, tt.max, l.Min, l.Max)
		}
	}
}

func TestLinearTicksMonotonic(t *testing.T) {
	domains := []struct{ min, max float64 }{
		{0, 100}, {-50, 50}, {0.001, 0.009}, {3, 17}, {-1200, 400},
	}
	for _, d := range domains {
		l, ok := NewLinear(d.min, d.max, 0, 100, true)
		if !ok {
			t.Fatalf("NewLinear(%v,%v) not ok", d.min, d.max)
		}
		ticks := l.Ticks(5)
		if len(ticks) < 2 {
			t.Fatalf("domain [%v,%v]: only %d ticks", d.min, d.max, len(ticks))
		}
		for i, v := range ticks {
			if v < l.Min-floatEpsilon || v > l.Max+floatEpsilon {
				t.Errorf("domain [%v,%v]: tick %v outside [%v,%v]", d.min, d.max, v, l.Min, l.Max)
			}
			if i > 0 && v <= ticks[i-1] {
				t.Errorf("domain [%v,%v]: ticks not strictly increasing at %d: %v", d.min, d.max, i, ticks)
			}
		}
	}
}

func TestLinearTickCount(t *testing.T) {
	l, _ := NewLinear(0, 100, 0, 100, true)
	for _, n := range []int{2, 5, 10} {
		ticks := l.Ticks(n)
		if len(ticks) < n/2 || len(ticks) > 2*n+1 {
			t.Errorf("Ticks(%d) returned %d ticks: %v", n, len(ticks), ticks)
		}
	}
}
