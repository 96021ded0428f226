package scale

import (
	"math"
	"time"
)

// Time maps a [Start,End] instant domain linearly (in milliseconds) onto a
// pixel range, Start at p0 and End at p1.
type Time struct {
	Start, End time.Time
	p0, p1     float64
}

// NewTime builds a time scale. The second return is false when the span is
// empty or inverted.
func NewTime(start, end time.Time, p0, p1 float64) (*Time, bool) {
	if !end.After(start) {
		return nil, false
	}
	return &Time{Start: start, End: end, p0: p0, p1: p1}, true
}

func (t *Time) Pos(at time.Time) float64 {
	span := float64(t.End.UnixMilli() - t.Start.UnixMilli())
	rel := float64(at.UnixMilli() - t.Start.UnixMilli())
	return t.p0 + rel/span*(t.p1-t.p0)
}

// Invert maps a pixel position back to an instant, for hover lookups.
func (t *Time) Invert(p float64) time.Time {
	span := float64(t.End.UnixMilli() - t.Start.UnixMilli())
	rel := (p - t.p0) / (t.p1 - t.p0) * span
	return t.Start.Add(time.Duration(rel) * time.Millisecond)
}

// TimeTick is one calendar-aligned tick with the strftime format suited to
// the chosen step density.
type TimeTick struct {
	At     time.Time
	Format string
}

// tickConfigs mirrors the graphite x-axis ladder: the first config whose
// step keeps the tick count within budget wins. Month and year steps are
// handled separately since they have no fixed duration.
var tickConfigs = []struct {
	step   time.Duration
	format string
}{
	{time.Second, "%H:%M:%S"},
	{5 * time.Second, "%H:%M:%S"},
	{15 * time.Second, "%H:%M:%S"},
	{30 * time.Second, "%H:%M:%S"},
	{time.Minute, "%H:%M"},
	{5 * time.Minute, "%H:%M"},
	{15 * time.Minute, "%H:%M"},
	{30 * time.Minute, "%H:%M"},
	{time.Hour, "%H:%M"},
	{3 * time.Hour, "%H:%M"},
	{6 * time.Hour, "%a %H:%M"},
	{12 * time.Hour, "%a %H:%M"},
	{24 * time.Hour, "%m/%d"},
	{2 * 24 * time.Hour, "%m/%d"},
	{7 * 24 * time.Hour, "%m/%d"},
	{14 * 24 * time.Hour, "%m/%d"},
}

// Ticks returns at most about n calendar-aligned ticks across the span:
// second/minute/hour/day boundaries for short spans, month or year starts
// for long ones.
func (t *Time) Ticks(n int) []TimeTick {
	if n < 1 {
		n = 1
	}
	span := t.End.Sub(t.Start)

	for _, c := range tickConfigs {
		if span/c.step <= time.Duration(n) {
			return t.durationTicks(c.step, c.format)
		}
	}

	months := int(span / (30 * 24 * time.Hour))
	for _, step := range []int{1, 2, 3, 6} {
		if months/step <= n {
			return t.monthTicks(step)
		}
	}

	years := int(span / (365 * 24 * time.Hour))
	yearStep := int(math.Ceil(float64(years) / float64(n)))
	if yearStep < 1 {
		yearStep = 1
	}
	return t.yearTicks(yearStep)
}

func (t *Time) durationTicks(step time.Duration, format string) []TimeTick {
	var ticks []TimeTick
	at := t.Start.Truncate(step)
	for at.Before(t.Start) {
		at = at.Add(step)
	}
	for !at.After(t.End) {
		ticks = append(ticks, TimeTick{At: at, Format: format})
		at = at.Add(step)
	}
	return ticks
}

func (t *Time) monthTicks(step int) []TimeTick {
	var ticks []TimeTick
	at := time.Date(t.Start.Year(), t.Start.Month(), 1, 0, 0, 0, 0, t.Start.Location())
	for at.Before(t.Start) {
		at = at.AddDate(0, step, 0)
	}
	for !at.After(t.End) {
		ticks = append(ticks, TimeTick{At: at, Format: "%b %Y"})
		at = at.AddDate(0, step, 0)
	}
	return ticks
}

func (t *Time) yearTicks(step int) []TimeTick {
	var ticks []TimeTick
	at := time.Date(t.Start.Year(), time.January, 1, 0, 0, 0, 0, t.Start.Location())
	for at.Before(t.Start) {
		at = at.AddDate(step, 0, 0)
	}
	for !at.After(t.End) {
		ticks = append(ticks, TimeTick{At: at, Format: "%Y"})
		at = at.AddDate(step, 0, 0)
	}
	return ticks
}
