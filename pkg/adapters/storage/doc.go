// Package storage provides upstream session storage implementations.
//
// Implementations:
//   - redis: Redis with JSON serialization and TTL bound to token expiry
//   - memory: In-process map, the default when no Redis address is configured
package storage
