package ports

import (
	"context"
	"errors"
	"time"

	"github.com/aescanero/garmin-metrics/pkg/domain"
)

// WellnessProvider fetches daily wellness records from the health-data provider.
// date is a calendar date in domain.DateLayout.
type WellnessProvider interface {
	VO2Max(ctx context.Context, date string) (*domain.VO2MaxRecord, error)
	HRV(ctx context.Context, date string) (*domain.HRVRecord, error)
	SpO2(ctx context.Context, date string) (*domain.SpO2Record, error)
	Respiration(ctx context.Context, date string) (*domain.RespirationRecord, error)
}

// Session is an authenticated upstream session.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Valid reports whether the session can still be used at now.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.AccessToken != "" && now.Before(s.ExpiresAt)
}

// ErrSessionNotFound is returned by SessionStore.Load when nothing is stored.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the upstream session between requests.
type SessionStore interface {
	Save(ctx context.Context, key string, session *Session) error
	Load(ctx context.Context, key string) (*Session, error)
	Delete(ctx context.Context, key string) error
}
