package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/orderdesk/pkg/models"
)

// ListInventory fetches every inventory item.
func (c *Client) ListInventory(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	if err := c.do(ctx, "list_inventory", http.MethodGet, "inventory", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CatalogItem{}
	}
	return items, nil
}

// CreateInventoryItem adds a new item.
func (c *Client) CreateInventoryItem(ctx context.Context, body models.InventoryWrite) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := c.do(ctx, "create_inventory", http.MethodPost, "inventory", body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateInventoryItem overwrites an item, including its stock quantity.
func (c *Client) UpdateInventoryItem(ctx context.Context, id int64, body models.InventoryWrite) error {
	return c.do(ctx, "update_inventory", http.MethodPut, fmt.Sprintf("inventory/%d", id), body, nil)
}

// RequestStock asks for stock to be sent to a branch.
func (c *Client) RequestStock(ctx context.Context, body models.StockRequest) error {
	return c.do(ctx, "request_stock", http.MethodPost, "inventory/request", body, nil)
}

// TransferStock moves stock between branches.
func (c *Client) TransferStock(ctx context.Context, body models.StockTransfer) error {
	return c.do(ctx, "transfer_stock", http.MethodPost, "inventory/transfer", body, nil)
}
