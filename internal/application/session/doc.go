// Package session watches the upstream Garmin session.
//
// The monitor periodically checks whether a valid session is stored,
// exports the result as a gauge and keeps the latest status for the
// health endpoint. It never triggers a login on its own.
package session
