// Package date parses the from/until query parameters: relative offsets
// like -1d, named times like midnight, unix epochs and a few absolute
// formats.
package date

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var errBadTime = errors.New("bad time")
var errBadInterval = errors.New("bad interval")

var timeNow = time.Now

// parseTime parses a time of day and returns hours and minutes
func parseTime(s string) (hour, minute int, err error) {

	switch s {
	case "midnight":
		return 0, 0, nil
	case "noon":
		return 12, 0, nil
	case "teatime":
		return 16, 0, nil
	}

	parts := strings.Split(s, ":")

	if len(parts) != 2 {
		return 0, 0, errBadTime
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errBadTime
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, errBadTime
	}

	return hour, minute, nil
}

// parseInterval converts an offset like "-1d4h" into a number of seconds.
func parseInterval(s string, defaultSign int) (int64, error) {
	if len(s) == 0 {
		return 0, nil
	}
	sign := defaultSign

	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		sign = 1
		s = s[1:]
	}

	var total int64
	for len(s) > 0 {
		var j int
		for j < len(s) && '0' <= s[j] && s[j] <= '9' {
			j++
		}
		var offsetStr string
		offsetStr, s = s[:j], s[j:]

		j = 0
		for j < len(s) && (s[j] < '0' || '9' < s[j]) {
			j++
		}
		var unitStr string
		unitStr, s = s[:j], s[j:]

		var units int
		switch unitStr {
		case "s", "sec", "secs", "second", "seconds":
			units = 1
		case "m", "min", "mins", "minute", "minutes":
			units = 60
		case "h", "hour", "hours":
			units = 60 * 60
		case "d", "day", "days":
			units = 24 * 60 * 60
		case "w", "week", "weeks":
			units = 7 * 24 * 60 * 60
		case "mon", "month", "months":
			units = 30 * 24 * 60 * 60
		case "y", "year", "years":
			units = 365 * 24 * 60 * 60
		default:
			return 0, errBadInterval
		}

		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return 0, err
		}
		total += int64(sign * offset * units)
	}

	return total, nil
}

var TimeFormats = []string{"20060102", "2006-01-02", "01/02/06"}

// ParamToEpoch turns a passed string parameter into a unix epoch
func ParamToEpoch(s, qtz string, d int64, defaultTimeZone *time.Location) int64 {

	if s == "" {
		// return the default if nothing was passed
		return d
	}

	// relative timestamp
	if s[0] == '-' {
		offset, err := parseInterval(s, -1)
		if err != nil {
			return d
		}

		return timeNow().Add(time.Duration(offset) * time.Second).Unix()
	}

	switch s {
	case "now":
		return timeNow().Unix()
	case "midnight", "noon", "teatime":
		yy, mm, dd := timeNow().Date()
		hh, min, _ := parseTime(s) // error ignored, we know it's valid
		dt := time.Date(yy, mm, dd, hh, min, 0, 0, defaultTimeZone)
		return dt.Unix()
	}

	sint, err := strconv.Atoi(s)
	// need to check that len(s) != 8 to avoid turning 20060102 into seconds
	if err == nil && len(s) != 8 {
		return int64(sint) // We got a timestamp so returning it
	}

	s = strings.Replace(s, "_", " ", 1) // Go can't parse _ in date strings

	var ts, ds string
	split := strings.Fields(s)

	switch {
	case len(split) == 1:
		ds = s
	case len(split) == 2:
		ts, ds = split[0], split[1]
	case len(split) > 2:
		return d
	}

	var tz = defaultTimeZone
	if qtz != "" {
		if z, err := time.LoadLocation(qtz); err == nil {
			tz = z
		}
	}

	var t time.Time
dateStringSwitch:
	switch ds {
	case "today":
		t = timeNow()
		// nothing
	case "yesterday":
		t = timeNow().AddDate(0, 0, -1)
	case "tomorrow":
		t = timeNow().AddDate(0, 0, 1)
	default:
		for _, format := range TimeFormats {
			t, err = time.ParseInLocation(format, ds, tz)
			if err == nil {
				break dateStringSwitch
			}
		}

		return d
	}

	var hour, minute int
	if ts != "" {
		hour, minute, _ = parseTime(ts)
		// defaults to hour=0, minute=0 on error, which is midnight, which is fine for now
	}

	yy, mm, dd := t.Date()
	t = time.Date(yy, mm, dd, hour, minute, 0, 0, defaultTimeZone)

	return t.Unix()
}
