package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aescanero/garmin-metrics/pkg/ports"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionStorage implements ports.SessionStore using Redis
type SessionStorage struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionStorage creates a new Redis session storage
func NewSessionStorage(client *redis.Client, prefix string, logger *zap.Logger) *SessionStorage {
	return &SessionStorage{
		client: client,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

// Save persists a session until its expiry
func (s *SessionStorage) Save(ctx context.Context, key string, session *ports.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session already expired at %s", session.ExpiresAt.Format(time.RFC3339))
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.sessionKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Debug("session saved",
		zap.String("key", s.sessionKey(key)),
		zap.Duration("ttl", ttl))

	return nil
}

// Load retrieves a session, returning ports.ErrSessionNotFound on a miss
func (s *SessionStorage) Load(ctx context.Context, key string) (*ports.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session ports.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes a session
func (s *SessionStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.sessionKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Debug("session deleted", zap.String("key", s.sessionKey(key)))
	return nil
}

// sessionKey returns the Redis key for a session
func (s *SessionStorage) sessionKey(key string) string {
	return fmt.Sprintf("%s%s", s.prefix, key)
}
