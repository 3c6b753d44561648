package cart

import (
	"testing"

	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup map[int64]models.CatalogItem

func (s stubLookup) Lookup(id int64) (models.CatalogItem, error) {
	item, ok := s[id]
	if !ok {
		return models.CatalogItem{}, pkgerrors.NotFound(id)
	}
	return item, nil
}

func testCatalog() stubLookup {
	return stubLookup{
		1: {ID: 1, ItemName: "Rice", Price: decimal.RequireFromString("2.50"), Quantity: 3},
		2: {ID: 2, ItemName: "Oil", Price: decimal.RequireFromString("7.25"), Quantity: 10},
		3: {ID: 3, ItemName: "Salt", Price: decimal.RequireFromString("0.99"), Quantity: 1},
	}
}

func TestAddAppendsAndReplaces(t *testing.T) {
	store := NewStore(testCatalog())

	_, err := store.Add(1, 2)
	require.NoError(t, err)
	_, err = store.Add(2, 1)
	require.NoError(t, err)
	line, err := store.Add(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	lines := store.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ItemID)
	assert.Equal(t, 3, lines[0].Quantity, "re-adding replaces the quantity instead of summing")
	assert.Equal(t, int64(2), lines[1].ItemID)
	assert.Equal(t, "Rice", lines[0].ItemName)
}

func TestAddRejectsBadInput(t *testing.T) {
	store := NewStore(testCatalog())
	_, _ = store.Add(2, 4)

	_, err := store.Add(1, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidQuantity))

	_, err = store.Add(99, 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = store.Add(1, 4)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))
	id, ok := pkgerrors.ItemID(err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), id)

	_, err = store.Add(2, 11)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock))

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity, "failed adds must not mutate the cart")
}

func TestUpdateQuantity(t *testing.T) {
	store := NewStore(testCatalog())
	_, _ = store.Add(3, 1)

	require.NoError(t, store.UpdateQuantity(3, 5), "updates skip stock revalidation")
	assert.Equal(t, 5, store.Lines()[0].Quantity)

	for _, bad := range []int{0, -2} {
		err := store.UpdateQuantity(3, bad)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidQuantity))
		assert.Equal(t, 5, store.Lines()[0].Quantity)
	}

	err := store.UpdateQuantity(1, 2)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRemoveAndClear(t *testing.T) {
	store := NewStore(testCatalog())
	_, _ = store.Add(1, 1)
	_, _ = store.Add(2, 1)
	_, _ = store.Add(3, 1)

	store.Remove(42)
	assert.Equal(t, 3, store.Len())

	store.Remove(2)
	lines := store.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ItemID)
	assert.Equal(t, int64(3), lines[1].ItemID)

	store.Clear()
	assert.Equal(t, 0, store.Len())
	assert.True(t, store.Total().IsZero())
	assert.NotNil(t, store.Lines())
}

func TestTotalsAndCounts(t *testing.T) {
	store := NewStore(testCatalog())
	_, _ = store.Add(1, 2)
	_, _ = store.Add(2, 3)

	assert.True(t, store.Total().Equal(decimal.RequireFromString("26.75")), "got %s", store.Total())
	assert.Equal(t, 5, store.ItemCount())

	store.RemoveItems(1, 2)
	assert.Equal(t, 0, store.ItemCount())
}

func TestLinesReturnsCopy(t *testing.T) {
	store := NewStore(testCatalog())
	_, _ = store.Add(1, 1)
	lines := store.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, store.Lines()[0].Quantity)
}
