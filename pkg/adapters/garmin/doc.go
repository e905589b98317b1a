// Package garmin implements ports.WellnessProvider against Garmin Connect.
//
// A Client is constructed once with the account credentials and a
// ports.SessionStore. The first call logs in through the SSO sign-in form,
// exchanges the service ticket for a bearer token and stores it; later calls
// reuse the token until it expires or the API rejects it.
//
// Calls are never retried here. A rejected token is dropped from the store so
// the next request logs in again.
package garmin
