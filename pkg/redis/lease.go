package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LeaseGuard hands out per-customer checkout leases so replicas never run two checkouts for the same
// customer at once.
type LeaseGuard struct {
	client *Client
	ttl    time.Duration
}

func NewLeaseGuard(client *Client, ttl time.Duration) (*LeaseGuard, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("lease ttl must be positive")
	}
	return &LeaseGuard{client: client, ttl: ttl}, nil
}

// Acquire takes the lease for customer. ok is false when another holder owns it.
func (g *LeaseGuard) Acquire(ctx context.Context, customer string) (release func(context.Context) error, ok bool, err error) {
	key := g.client.CheckoutLeaseKey(customer)
	token := uuid.NewString()
	ok, err = g.client.SetNX(ctx, key, token, g.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("acquire checkout lease: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return func(ctx context.Context) error {
		if _, err := g.client.DeleteIfEquals(ctx, key, token); err != nil {
			return fmt.Errorf("release checkout lease: %w", err)
		}
		return nil
	}, true, nil
}
