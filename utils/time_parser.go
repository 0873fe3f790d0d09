package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"guardian-bot/model"
)

// ParseDuration extends time.ParseDuration to support days (d).
// Malformed input is a ValidationError, never retried.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, model.NewValidationError("empty duration")
	}
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			return 0, model.NewValidationError("invalid day value: %s", daysStr)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, model.NewValidationError("invalid duration %q: use forms like 30m, 2h, 1h30m, 1d", s)
	}
	if d <= 0 {
		return 0, model.NewValidationError("duration must be positive")
	}
	return d, nil
}

// Timezone abbreviations the announce flow accepts. Name-to-zone resolution
// stays here at the edge; the core only ever sees absolute times.
var clockZones = map[string]string{
	"PST": "America/Los_Angeles",
	"PT":  "America/Los_Angeles",
	"EST": "America/New_York",
	"ET":  "America/New_York",
}

var clockRe = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(AM|PM)$`)

// ParseClockTime parses a human-entered time of day like "6:30 PM EST" or
// "3 PM PST" and returns the next wall-clock occurrence after now.
// Unzoned input defaults to Eastern, matching what users expect from the
// announce prompt.
func ParseClockTime(s string, now time.Time) (time.Time, error) {
	in := strings.ToUpper(strings.TrimSpace(s))

	zoneName := "America/New_York"
	for abbr, name := range clockZones {
		if strings.HasSuffix(in, abbr) {
			zoneName = name
			in = strings.TrimSpace(strings.TrimSuffix(in, abbr))
			break
		}
	}
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return time.Time{}, model.NewValidationError("unknown timezone in %q", s)
	}

	m := clockRe.FindStringSubmatch(in)
	if m == nil {
		return time.Time{}, model.NewValidationError("could not parse time %q: use forms like 6:30 PM EST or 3 PM PST", s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return time.Time{}, model.NewValidationError("time of day %q is out of range", s)
	}
	if m[3] == "PM" && hour != 12 {
		hour += 12
	} else if m[3] == "AM" && hour == 12 {
		hour = 0
	}

	local := now.In(loc)
	target := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !target.After(local) {
		target = target.AddDate(0, 0, 1)
	}
	return target, nil
}
