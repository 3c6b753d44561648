package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/orderdesk/pkg/models"
)

// CreateOrder records one order line.
func (c *Client) CreateOrder(ctx context.Context, body models.OrderWrite) (*models.OrderRecord, error) {
	var order models.OrderRecord
	if err := c.do(ctx, "create_order", http.MethodPost, "orders", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders fetches every order.
func (c *Client) ListOrders(ctx context.Context) ([]models.OrderRecord, error) {
	var orders []models.OrderRecord
	if err := c.do(ctx, "list_orders", http.MethodGet, "orders", nil, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.OrderRecord{}
	}
	return orders, nil
}

// UpdateOrderStatus changes only the status of an order.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	return c.do(ctx, "update_order_status", http.MethodPut, fmt.Sprintf("orders/%d", id), models.OrderStatusUpdate{Status: status}, nil)
}

// UpdateOrder overwrites a full order record.
func (c *Client) UpdateOrder(ctx context.Context, id int64, body models.OrderWrite) error {
	return c.do(ctx, "update_order", http.MethodPut, fmt.Sprintf("orders/%d", id), body, nil)
}

// DeleteOrder removes an order.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_order", http.MethodDelete, fmt.Sprintf("orders/%d", id), nil, nil)
}
