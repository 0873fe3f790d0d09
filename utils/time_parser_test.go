package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"guardian-bot/model"
)

func TestParseDuration(t *testing.T) {
	assert := assert.New(t)

	d, err := ParseDuration("30m")
	assert.NoError(err)
	assert.Equal(30*time.Minute, d)

	d, err = ParseDuration("2h")
	assert.NoError(err)
	assert.Equal(2*time.Hour, d)

	d, err = ParseDuration("1h30m")
	assert.NoError(err)
	assert.Equal(90*time.Minute, d)

	d, err = ParseDuration("3d")
	assert.NoError(err)
	assert.Equal(72*time.Hour, d)

	for _, bad := range []string{"", "xd", "-5m", "0s", "soon"} {
		_, err := ParseDuration(bad)
		assert.Error(err, "input %q", bad)
		assert.True(model.IsValidation(err), "input %q should be a validation error", bad)
	}
}

func TestParseClockTime(t *testing.T) {
	assert := assert.New(t)

	eastern, err := time.LoadLocation("America/New_York")
	assert.NoError(err)
	pacific, err := time.LoadLocation("America/Los_Angeles")
	assert.NoError(err)

	// 10:00 AM Eastern on a fixed date.
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, eastern)

	// Compare instants, not structs; the location pointers differ between
	// LoadLocation calls.
	same := func(want, got time.Time) {
		t.Helper()
		assert.True(want.Equal(got), "want %v, got %v", want, got)
	}

	target, err := ParseClockTime("6:30 PM EST", now)
	assert.NoError(err)
	same(time.Date(2025, 6, 2, 18, 30, 0, 0, eastern), target)

	// A time already gone today rolls to tomorrow.
	target, err = ParseClockTime("9:00 AM EST", now)
	assert.NoError(err)
	same(time.Date(2025, 6, 3, 9, 0, 0, 0, eastern), target)

	// Pacific, no minutes.
	target, err = ParseClockTime("3 PM PST", now)
	assert.NoError(err)
	same(time.Date(2025, 6, 2, 15, 0, 0, 0, pacific), target)

	// No timezone defaults to Eastern; 11:45 AM is still ahead of now
	// today, so it does not roll over.
	target, err = ParseClockTime("11:45 am", now)
	assert.NoError(err)
	same(time.Date(2025, 6, 2, 11, 45, 0, 0, eastern), target)

	// Midnight and noon edge cases.
	target, err = ParseClockTime("12 AM ET", now)
	assert.NoError(err)
	same(time.Date(2025, 6, 3, 0, 0, 0, 0, eastern), target)

	target, err = ParseClockTime("12 PM ET", now)
	assert.NoError(err)
	same(time.Date(2025, 6, 2, 12, 0, 0, 0, eastern), target)

	for _, bad := range []string{"", "25 PM", "6:75 PM EST", "half past six", "18:00"} {
		_, err := ParseClockTime(bad, now)
		assert.Error(err, "input %q", bad)
		assert.True(model.IsValidation(err), "input %q should be a validation error", bad)
	}
}
