// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - The four republished metrics (/vo2max, /hrv, /spo2, /respiratory_rate)
//   - Health checks
//   - Prometheus metrics
package http
