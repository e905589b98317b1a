// Package wellness implements the metric endpoints on top of a
// ports.WellnessProvider.
//
// The service decides which calendar date each metric is read for
// (yesterday for VO2Max, HRV and SpO2, today for respiratory rate) and
// projects the provider's record down to a single value. Respiratory rate
// additionally goes through the half-day filter in filter.go.
package wellness
