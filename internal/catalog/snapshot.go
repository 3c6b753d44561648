package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/models"
)

// Fetcher loads the full inventory list from the remote service.
type Fetcher interface {
	ListInventory(ctx context.Context) ([]models.CatalogItem, error)
}

// Snapshot is a point-in-time copy of the inventory, replaced wholesale on refresh.
type Snapshot struct {
	fetcher Fetcher
	now     func() time.Time

	mu        sync.RWMutex
	items     []models.CatalogItem
	index     map[int64]int
	fetchedAt time.Time
}

func NewSnapshot(fetcher Fetcher) *Snapshot {
	return &Snapshot{
		fetcher: fetcher,
		now:     time.Now,
		index:   map[int64]int{},
	}
}

// Refresh fetches the inventory and swaps it in only after a complete response. On failure the
// previous snapshot is kept.
func (s *Snapshot) Refresh(ctx context.Context) error {
	if s.fetcher == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "catalog fetcher not configured")
	}
	fetched, err := s.fetcher.ListInventory(ctx)
	if err != nil {
		return err
	}

	items := make([]models.CatalogItem, 0, len(fetched))
	index := make(map[int64]int, len(fetched))
	for _, item := range fetched {
		if pos, dup := index[item.ID]; dup {
			items[pos] = item
			continue
		}
		index[item.ID] = len(items)
		items = append(items, item)
	}

	s.mu.Lock()
	s.items = items
	s.index = index
	s.fetchedAt = s.now()
	s.mu.Unlock()
	return nil
}

// Lookup returns the item with id or NotFound.
func (s *Snapshot) Lookup(id int64) (models.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[id]
	if !ok {
		return models.CatalogItem{}, pkgerrors.NotFound(id)
	}
	return s.items[pos], nil
}

// Items returns the snapshot in fetch order.
func (s *Snapshot) Items() []models.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CatalogItem(nil), s.items...)
}

// Search filters items whose name contains query, ignoring case. A blank query returns everything.
func (s *Snapshot) Search(query string) []models.CatalogItem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.Items()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.CatalogItem{}
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.ItemName), q) {
			out = append(out, item)
		}
	}
	return out
}

// FetchedAt is the time of the last successful refresh, zero if never fetched.
func (s *Snapshot) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

// ApplyStock records a stock level the remote service has confirmed. Unknown ids are ignored.
func (s *Snapshot) ApplyStock(id int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.index[id]
	if !ok {
		return
	}
	s.items[pos].Quantity = quantity
}
