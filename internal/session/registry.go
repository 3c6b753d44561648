package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/orderdesk/internal/cart"
	"github.com/angelmondragon/orderdesk/internal/catalog"
	"github.com/angelmondragon/orderdesk/internal/checkout"
	"github.com/angelmondragon/orderdesk/pkg/auth"
	"github.com/angelmondragon/orderdesk/pkg/enums"
	"github.com/angelmondragon/orderdesk/pkg/logger"
	"github.com/angelmondragon/orderdesk/pkg/metrics"
	"github.com/angelmondragon/orderdesk/pkg/models"
)

// Remote is everything a desk session reads from and writes to the remote service.
type Remote interface {
	ListInventory(ctx context.Context) ([]models.CatalogItem, error)
	CreateOrder(ctx context.Context, body models.OrderWrite) (*models.OrderRecord, error)
	UpdateInventoryItem(ctx context.Context, id int64, body models.InventoryWrite) error
}

// Deps configure every session built by the registry.
type Deps struct {
	Remote         Remote
	Credentials    auth.Source
	Logger         *logger.Logger
	Metrics        *metrics.CheckoutMetrics
	Lease          checkout.LeaseGuard
	DefaultPayment enums.PaymentMethod
}

// Session is one signed-in user's working set: cart, catalog snapshot and checkout.
type Session struct {
	Username string
	Cart     *cart.Store
	Catalog  *catalog.Snapshot
	Checkout *checkout.Orchestrator

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen is when the session was last handed out.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Busy reports whether a checkout is running.
func (s *Session) Busy() bool {
	state, _ := s.Checkout.State()
	return state != enums.CheckoutStateIdle
}

// Registry keeps one session per username.
type Registry struct {
	deps Deps
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(deps Deps) (*Registry, error) {
	if deps.Remote == nil {
		return nil, fmt.Errorf("session remote required")
	}
	if deps.Credentials == nil {
		return nil, fmt.Errorf("credential source required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Registry{
		deps:     deps,
		now:      time.Now,
		sessions: map[string]*Session{},
	}, nil
}

// Get returns the session for username, creating it on first use.
func (r *Registry) Get(username string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[username]; ok {
		s.touch(r.now())
		return s, nil
	}

	s, err := r.build(username)
	if err != nil {
		return nil, err
	}
	s.touch(r.now())
	r.sessions[username] = s
	return s, nil
}

func (r *Registry) build(username string) (*Session, error) {
	snapshot := catalog.NewSnapshot(r.deps.Remote)
	store := cart.NewStore(snapshot)

	opts := []checkout.Option{checkout.WithDefaultPaymentMethod(r.deps.DefaultPayment)}
	if r.deps.Lease != nil {
		opts = append(opts, checkout.WithLeaseGuard(r.deps.Lease))
	}
	orchestrator, err := checkout.New(checkout.Deps{
		Cart:        store,
		Catalog:     snapshot,
		Writer:      r.deps.Remote,
		Credentials: r.deps.Credentials,
		Logger:      r.deps.Logger,
		Metrics:     r.deps.Metrics,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("build checkout for %s: %w", username, err)
	}

	return &Session{
		Username: username,
		Cart:     store,
		Catalog:  snapshot,
		Checkout: orchestrator,
	}, nil
}

// Drop clears the user's cart and forgets the session. It reports whether a session existed.
func (r *Registry) Drop(username string) bool {
	r.mu.Lock()
	s, ok := r.sessions[strings.TrimSpace(username)]
	if ok {
		delete(r.sessions, s.Username)
	}
	r.mu.Unlock()

	if ok {
		s.Cart.Clear()
	}
	return ok
}

// Sweep drops sessions idle for longer than idle. Sessions with a checkout in flight are kept.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for name, s := range r.sessions {
		if s.Busy() || s.LastSeen().After(cutoff) {
			continue
		}
		delete(r.sessions, name)
		dropped++
	}
	return dropped
}

// RunSweeper sweeps on every tick until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.deps.Logger.Info(r.deps.Logger.WithField(ctx, "dropped", n), "session.sweep")
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
