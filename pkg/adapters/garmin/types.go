package garmin

import (
	"time"

	"github.com/aescanero/garmin-metrics/pkg/domain"
)

// tokenResponse is the ticket exchange payload
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// maxMetricsEntry is one element of the maxmet daily array
type maxMetricsEntry struct {
	Generic *struct {
		CalendarDate       string   `json:"calendarDate"`
		VO2MaxPreciseValue *float64 `json:"vo2MaxPreciseValue"`
		VO2MaxValue        *float64 `json:"vo2MaxValue"`
	} `json:"generic"`
}

type hrvResponse struct {
	HRVSummary *struct {
		CalendarDate string   `json:"calendarDate"`
		LastNightAvg *float64 `json:"lastNightAvg"`
	} `json:"hrvSummary"`
	HRVReadings []struct {
		HRVValue         float64 `json:"hrvValue"`
		ReadingTimeLocal string  `json:"readingTimeLocal"`
	} `json:"hrvReadings"`
}

type spo2Response struct {
	CalendarDate       string       `json:"calendarDate"`
	AverageSleepSpO2   *float64     `json:"avgSleepSpO2"`
	SpO2HourlyAverages [][]*float64 `json:"spO2HourlyAverages"`
}

type respirationResponse struct {
	CalendarDate           string       `json:"calendarDate"`
	RespirationValuesArray [][]*float64 `json:"respirationValuesArray"`
}

// readingTimeLayout matches readingTimeLocal; fractional seconds are accepted on parse
const readingTimeLayout = "2006-01-02T15:04:05"

// pairsToReadings converts [epochMillis, value] pairs, skipping incomplete
// entries and non-positive values.
func pairsToReadings(pairs [][]*float64, loc *time.Location) []domain.Reading {
	readings := make([]domain.Reading, 0, len(pairs))
	for _, p := range pairs {
		if len(p) < 2 || p[0] == nil || p[1] == nil || *p[1] <= 0 {
			continue
		}
		readings = append(readings, domain.Reading{
			Timestamp: time.UnixMilli(int64(*p[0])).In(loc),
			Value:     *p[1],
		})
	}
	return readings
}
