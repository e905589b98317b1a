package domain

// Metric names as exposed by the API.
const (
	MetricVO2Max          = "vo2max"
	MetricHRV             = "hrv"
	MetricSpO2            = "spo2"
	MetricRespiratoryRate = "respiratory_rate"
)

// VO2MaxRecord is the provider's daily VO2Max summary.
type VO2MaxRecord struct {
	CalendarDate string
	Value        float64
}

// HRVRecord is the provider's nightly HRV summary and its 5-minute readings.
type HRVRecord struct {
	CalendarDate string
	LastNightAvg float64
	Readings     []Reading
}

// SpO2Record is the provider's daily blood oxygen summary.
type SpO2Record struct {
	CalendarDate     string
	AverageSleepSpO2 float64
	HourlyAverages   []Reading
}

// RespirationRecord holds the respiratory-rate samples for one day.
type RespirationRecord struct {
	CalendarDate string
	Samples      []RespiratorySample
}

// Measurement is a single reading in a list response.
type Measurement struct {
	Datetime string  `json:"datetime"`
	Value    float64 `json:"value"`
}

// MetricValue is the single-value result served for a metric.
type MetricValue struct {
	Metric       string  `json:"metric"`
	CalendarDate string  `json:"calendar_date"`
	Value        float64 `json:"value"`
	Unit         string  `json:"unit"`
	Datetime     string  `json:"datetime,omitempty"`
}

// MeasurementList is the full-day form of a metric.
type MeasurementList struct {
	CalendarDate string        `json:"calendar_date"`
	Measurements []Measurement `json:"measurements"`
}
