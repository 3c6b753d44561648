package models

import (
	"encoding/json"
	"testing"

	"github.com/angelmondragon/orderdesk/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCatalogItemDecodesNumericPrice(t *testing.T) {
	var item CatalogItem
	err := json.Unmarshal([]byte(`{"id":4,"item_name":"Rice","price":12.5,"quantity":9,"supplier_name":"Acme","store":"Main Branch"}`), &item)
	require.NoError(t, err)
	require.Equal(t, int64(4), item.ID)
	require.True(t, item.Price.Equal(decimal.RequireFromString("12.5")))
	require.Equal(t, 9, item.Quantity)
	require.Equal(t, "Main Branch", item.Store)
}

func TestCatalogItemWriteBodyOverridesQuantity(t *testing.T) {
	item := CatalogItem{ID: 1, ItemName: "Rice", Price: decimal.RequireFromString("2.25"), Quantity: 10, SupplierName: "Acme", Store: "City Branch"}
	body := item.WriteBody(7)
	require.Equal(t, 7, body.Quantity)
	require.Equal(t, 2.25, body.Price)
	require.Equal(t, "City Branch", body.Store)
}

func TestOrderRecordWriteBody(t *testing.T) {
	order := OrderRecord{
		CustomerName:  "alice",
		ProductName:   "Rice",
		Quantity:      2,
		Price:         decimal.RequireFromString("4.50"),
		TransactionID: "TXN-1",
		PaymentMethod: enums.PaymentMethodCard,
		Status:        enums.OrderStatusPending,
	}
	body := order.WriteBody()
	require.Equal(t, "Card", body.PaymentMethod)
	require.Equal(t, "Pending", body.Status)
	require.Equal(t, 4.5, body.Price)
}
