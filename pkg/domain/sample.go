package domain

import "time"

// DateLayout is the calendar date format used by the provider and the API.
const DateLayout = "2006-01-02"

// DatetimeLayout is the reading timestamp format returned to clients.
const DatetimeLayout = "2006-01-02 15:04:05"

// DayHalf identifies the morning or evening half of a calendar day.
type DayHalf string

const (
	// DayHalfMorning covers 00:00 inclusive to 12:00 exclusive.
	DayHalfMorning DayHalf = "morning"
	// DayHalfEvening covers 12:00 inclusive to 24:00 exclusive.
	DayHalfEvening DayHalf = "evening"
)

// DayHalfOf returns the half of the day t falls in, using t's own location.
func DayHalfOf(t time.Time) DayHalf {
	if t.Hour() < 12 {
		return DayHalfMorning
	}
	return DayHalfEvening
}

// RespiratorySample is one breaths-per-minute reading.
type RespiratorySample struct {
	Timestamp time.Time
	Value     float64
}

// Reading is a generic timestamped value (HRV, SpO2 hourly average, ...).
type Reading struct {
	Timestamp time.Time
	Value     float64
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
