package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aescanero/garmin-metrics/pkg/ports"
)

// InMemorySessionStorage implements ports.SessionStore using an in-memory map
type InMemorySessionStorage struct {
	sessions map[string]ports.Session
	mu       sync.RWMutex
	now      func() time.Time
}

// NewInMemorySessionStorage creates a new in-memory session storage
func NewInMemorySessionStorage() *InMemorySessionStorage {
	return &InMemorySessionStorage{
		sessions: make(map[string]ports.Session),
		now:      time.Now,
	}
}

// Save stores a copy of the session
func (s *InMemorySessionStorage) Save(ctx context.Context, key string, session *ports.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[key] = *session
	return nil
}

// Load returns the stored session, dropping it once expired
func (s *InMemorySessionStorage) Load(ctx context.Context, key string) (*ports.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[key]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, key)
		return nil, ports.ErrSessionNotFound
	}

	return &session, nil
}

// Delete removes a session
func (s *InMemorySessionStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, key)
	return nil
}
