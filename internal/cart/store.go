package cart

import (
	"sync"

	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/models"
	"github.com/shopspring/decimal"
)

// Lookup resolves catalog items by id.
type Lookup interface {
	Lookup(id int64) (models.CatalogItem, error)
}

// Line is one item in the cart. Quantity is always at least 1.
type Line struct {
	ItemID    int64           `json:"item_id"`
	ItemName  string          `json:"item_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is the extended price of the line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store is the in-memory cart of one session. Lines keep insertion order and ids are unique.
type Store struct {
	lookup Lookup

	mu    sync.Mutex
	lines []Line
}

func NewStore(lookup Lookup) *Store {
	return &Store{lookup: lookup}
}

// Add puts quantity units of an item in the cart, replacing the quantity of an existing line.
// A failed add leaves the cart untouched.
func (s *Store) Add(itemID int64, quantity int) (Line, error) {
	if quantity < 1 {
		return Line{}, pkgerrors.InvalidQuantity(quantity)
	}
	if s.lookup == nil {
		return Line{}, pkgerrors.New(pkgerrors.CodeInternal, "cart has no catalog")
	}
	item, err := s.lookup.Lookup(itemID)
	if err != nil {
		return Line{}, err
	}
	if quantity > item.Quantity {
		return Line{}, pkgerrors.InsufficientStock(itemID, quantity, item.Quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(itemID); i >= 0 {
		s.lines[i].Quantity = quantity
		return s.lines[i], nil
	}
	line := Line{
		ItemID:    item.ID,
		ItemName:  item.ItemName,
		UnitPrice: item.Price,
		Quantity:  quantity,
	}
	s.lines = append(s.lines, line)
	return line, nil
}

// Remove drops the line for itemID. Removing an absent item is a no-op.
func (s *Store) Remove(itemID int64) {
	s.RemoveItems(itemID)
}

// RemoveItems drops every line whose id is listed, keeping the order of the rest.
func (s *Store) RemoveItems(itemIDs ...int64) {
	if len(itemIDs) == 0 {
		return
	}
	drop := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.lines[:0]
	for _, line := range s.lines {
		if _, ok := drop[line.ItemID]; !ok {
			kept = append(kept, line)
		}
	}
	s.lines = kept
}

// UpdateQuantity overwrites the quantity of an existing line without checking stock.
func (s *Store) UpdateQuantity(itemID int64, quantity int) error {
	if quantity < 1 {
		return pkgerrors.InvalidQuantity(quantity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(itemID)
	if i < 0 {
		return pkgerrors.NotFound(itemID)
	}
	s.lines[i].Quantity = quantity
	return nil
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Total is the sum of line subtotals.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line{}, s.lines...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// ItemCount is the total number of units across lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, line := range s.lines {
		n += line.Quantity
	}
	return n
}

func (s *Store) indexOf(itemID int64) int {
	for i, line := range s.lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}
