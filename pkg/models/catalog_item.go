package models

import "github.com/shopspring/decimal"

// CatalogItem is one inventory record as served by the remote service.
type CatalogItem struct {
	ID           int64           `json:"id"`
	ItemName     string          `json:"item_name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	SupplierName string          `json:"supplier_name"`
	Store        string          `json:"store,omitempty"`
}

// InventoryWrite is the body accepted by POST /inventory and PUT /inventory/{id}.
type InventoryWrite struct {
	ItemName     string  `json:"item_name"`
	Quantity     int     `json:"quantity"`
	SupplierName string  `json:"supplier_name"`
	Price        float64 `json:"price"`
	Store        string  `json:"store,omitempty"`
}

// WriteBody converts the item into the remote write shape, overriding the quantity.
func (c CatalogItem) WriteBody(quantity int) InventoryWrite {
	return InventoryWrite{
		ItemName:     c.ItemName,
		Quantity:     quantity,
		SupplierName: c.SupplierName,
		Price:        c.Price.InexactFloat64(),
		Store:        c.Store,
	}
}

// StockRequest asks the warehouse to send stock to a branch.
type StockRequest struct {
	ItemID   int64  `json:"item_id"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
	Branch   string `json:"branch"`
}

// StockTransfer moves stock between two branches.
type StockTransfer struct {
	ItemID     int64  `json:"item_id"`
	ItemName   string `json:"item_name"`
	Quantity   int    `json:"quantity"`
	FromBranch string `json:"from_branch"`
	ToBranch   string `json:"to_branch"`
}
