// Package domain holds the wellness data model shared by the service,
// the upstream adapters and the HTTP API.
//
// Records are read-only projections of what the health-data provider
// returns for a single calendar day. Nothing here is persisted.
package domain
