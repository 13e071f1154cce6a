package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/homio-app/homio-backend/pkg/config"
	redisclient "github.com/homio-app/homio-backend/pkg/redis"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(accessID string) string
}

// Manager tracks login sessions in Redis, keyed by the access token jti.
// A token whose session is gone is rejected even before it expires.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newManager(client, client, cfg)
}

func newManager(store sessionStore, keyer sessionKeyer, cfg config.JWTConfig) (*Manager, error) {
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	if accessTTL := cfg.AccessTTL(); ttl < accessTTL {
		return nil, fmt.Errorf("session ttl (%s) must cover access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: store, keyer: keyer, ttl: ttl}, nil
}

// Generate opens a session for the access ID on behalf of userID.
func (m *Manager) Generate(ctx context.Context, accessID string, userID uuid.UUID) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	if userID == uuid.Nil {
		return fmt.Errorf("user id is required")
	}
	return m.store.Set(ctx, m.keyer.SessionKey(accessID), userID.String(), m.ttl)
}

// Revoke ends the session tied to the access identifier. Revoking a missing
// session is not an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(accessID))
}

// HasSession reports whether the provided access ID still has an active session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.SessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewAccessID produces the identifier used as the JWT jti and Redis key.
func NewAccessID() string {
	return uuid.NewString()
}
