package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayHalfOf(t *testing.T) {
	at := func(h, m, s int) time.Time {
		return time.Date(2026, 10, 16, h, m, s, 0, time.UTC)
	}

	assert.Equal(t, DayHalfMorning, DayHalfOf(at(0, 0, 0)))
	assert.Equal(t, DayHalfMorning, DayHalfOf(at(11, 59, 59)))
	assert.Equal(t, DayHalfEvening, DayHalfOf(at(12, 0, 0)))
	assert.Equal(t, DayHalfEvening, DayHalfOf(at(23, 59, 59)))
}

func TestSameDay_UsesFirstLocation(t *testing.T) {
	tz := time.FixedZone("UTC+2", 2*3600)
	local := time.Date(2026, 10, 16, 1, 0, 0, 0, tz)
	utc := time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC)

	assert.True(t, SameDay(local, utc))
	assert.False(t, SameDay(local, utc.Add(-2*time.Hour)))
}
