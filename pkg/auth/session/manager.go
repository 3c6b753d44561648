package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/angelmondragon/orderdesk/pkg/redis"
)

type revocationStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

type revocationKeyer interface {
	RevokedTokenKey(tokenID string) string
}

// Manager tracks access tokens that were signed out before they expired.
type Manager struct {
	store revocationStore
	keyer revocationKeyer
	now   func() time.Time
}

// RevocationChecker exposes the read-only surface needed by middleware.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NewManager constructs a revocation manager backed by Redis.
func NewManager(client *redisclient.Client) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Manager{store: client, keyer: client, now: time.Now}, nil
}

// Revoke marks tokenID as signed out until expiresAt. Tokens without an expiry are kept for a day.
func (m *Manager) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	ttl := 24 * time.Hour
	if !expiresAt.IsZero() {
		ttl = expiresAt.Sub(m.now())
		if ttl <= 0 {
			return nil
		}
	}
	return m.store.Set(ctx, m.keyer.RevokedTokenKey(tokenID), "1", ttl)
}

// IsRevoked reports whether tokenID was signed out.
func (m *Manager) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if strings.TrimSpace(tokenID) == "" {
		return false, nil
	}
	return m.store.Exists(ctx, m.keyer.RevokedTokenKey(tokenID))
}
