package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) RevokedTokenKey(tokenID string) string {
	return "revoked:" + tokenID
}

func newTestManager(store *mockStore, now time.Time) *Manager {
	return &Manager{store: store, keyer: store, now: func() time.Time { return now }}
}

func TestRevokeUsesRemainingLifetime(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newMockStore()
	manager := newTestManager(store, now)

	if err := manager.Revoke(context.Background(), "jti-1", now.Add(15*time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if store.ttls["revoked:jti-1"] != 15*time.Minute {
		t.Fatalf("expected ttl 15m, got %v", store.ttls["revoked:jti-1"])
	}

	revoked, err := manager.IsRevoked(context.Background(), "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected token to be revoked, got %v err=%v", revoked, err)
	}
	revoked, err = manager.IsRevoked(context.Background(), "jti-2")
	if err != nil || revoked {
		t.Fatalf("unknown token must not be revoked, got %v err=%v", revoked, err)
	}
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	now := time.Now()
	store := newMockStore()
	manager := newTestManager(store, now)

	if err := manager.Revoke(context.Background(), "old", now.Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(store.data) != 0 {
		t.Fatalf("expired tokens need no revocation entry")
	}
}

func TestRevokeRequiresTokenID(t *testing.T) {
	manager := newTestManager(newMockStore(), time.Now())
	if err := manager.Revoke(context.Background(), " ", time.Time{}); err == nil {
		t.Fatalf("expected error for blank token id")
	}
	if revoked, err := manager.IsRevoked(context.Background(), ""); err != nil || revoked {
		t.Fatalf("blank token id is never revoked")
	}
}
