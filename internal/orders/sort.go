package orders

import (
	"sort"
	"strings"

	"github.com/angelmondragon/orderdesk/pkg/models"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort keys accepted by the order list.
const (
	KeyID           = "id"
	KeyCustomerName = "customer_name"
	KeyProductName  = "product_name"
	KeyQuantity     = "quantity"
	KeyPrice        = "price"
	KeyStatus       = "status"
)

var sortKeys = map[string]func(a, b models.OrderRecord) int{
	KeyID:           func(a, b models.OrderRecord) int { return compareInt64(a.ID, b.ID) },
	KeyCustomerName: func(a, b models.OrderRecord) int { return strings.Compare(a.CustomerName, b.CustomerName) },
	KeyProductName:  func(a, b models.OrderRecord) int { return strings.Compare(a.ProductName, b.ProductName) },
	KeyQuantity:     func(a, b models.OrderRecord) int { return compareInt64(int64(a.Quantity), int64(b.Quantity)) },
	KeyPrice:        func(a, b models.OrderRecord) int { return a.Price.Cmp(b.Price) },
	KeyStatus:       func(a, b models.OrderRecord) int { return strings.Compare(string(a.Status), string(b.Status)) },
}

// Sort is the active column and direction. The zero value sorts by id ascending.
type Sort struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// ParseSort normalises raw query values, falling back to id ascending.
func ParseSort(key, direction string) Sort {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := sortKeys[key]; !ok {
		key = KeyID
	}
	dir := Asc
	if strings.EqualFold(strings.TrimSpace(direction), string(Desc)) {
		dir = Desc
	}
	return Sort{Key: key, Direction: dir}
}

// Toggle returns the sort after a header click: the same column flips direction, a new column
// starts ascending.
func (s Sort) Toggle(key string) Sort {
	next := ParseSort(key, string(Asc))
	current := ParseSort(s.Key, string(s.Direction))
	if next.Key == current.Key && current.Direction == Asc {
		next.Direction = Desc
	}
	return next
}

// Filter keeps orders whose customer or product name contains search, ignoring case.
func Filter(orders []models.OrderRecord, search string) []models.OrderRecord {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.OrderRecord, 0, len(orders))
	for _, o := range orders {
		if q == "" ||
			strings.Contains(strings.ToLower(o.CustomerName), q) ||
			strings.Contains(strings.ToLower(o.ProductName), q) {
			out = append(out, o)
		}
	}
	return out
}

// SortOrders sorts in place. Ties keep their original order.
func SortOrders(orders []models.OrderRecord, s Sort) {
	s = ParseSort(s.Key, string(s.Direction))
	cmp := sortKeys[s.Key]
	sort.SliceStable(orders, func(i, j int) bool {
		c := cmp(orders[i], orders[j])
		if s.Direction == Desc {
			return c > 0
		}
		return c < 0
	})
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
