package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ecoelite/booking-backend/pkg/config"
	redisclient "github.com/ecoelite/booking-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session id has no live record.
var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager stores login sessions in Redis keyed by the token jti.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	Lookup(ctx context.Context, sessionID string) (uuid.UUID, error)
}

// Store is the full surface the login and logout flows use.
type Store interface {
	Checker
	Open(ctx context.Context, userID uuid.UUID) (string, error)
	Revoke(ctx context.Context, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: client, keyer: client, ttl: ttl}, nil
}

// TTL reports how long new sessions live.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Open creates a session for userID and returns its id.
func (m *Manager) Open(ctx context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}
	sessionID := NewSessionID()
	if err := m.store.Set(ctx, m.keyer.SessionKey(sessionID), userID.String(), m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sessionID, nil
}

// Lookup returns the user bound to sessionID or ErrSessionNotFound.
func (m *Manager) Lookup(ctx context.Context, sessionID string) (uuid.UUID, error) {
	if strings.TrimSpace(sessionID) == "" {
		return uuid.Nil, ErrSessionNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return uuid.Nil, ErrSessionNotFound
		}
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrSessionNotFound
	}
	return userID, nil
}

// Revoke deletes the session and reports whether one existed.
func (m *Manager) Revoke(ctx context.Context, sessionID string) (bool, error) {
	if _, err := m.Lookup(ctx, sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := m.store.Del(ctx, m.keyer.SessionKey(sessionID)); err != nil {
		return false, err
	}
	return true, nil
}

// NewSessionID produces the identifier used as JWT jti and Redis key.
func NewSessionID() string {
	return uuid.NewString()
}
