package models

import (
	"github.com/angelmondragon/orderdesk/pkg/enums"
	"github.com/shopspring/decimal"
)

// OrderRecord is an order owned by the remote service. Price is the extended line price.
type OrderRecord struct {
	ID            int64               `json:"id"`
	CustomerName  string              `json:"customer_name"`
	ProductName   string              `json:"product_name"`
	Quantity      int                 `json:"quantity"`
	Price         decimal.Decimal     `json:"price"`
	TransactionID string              `json:"transaction_id"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Status        enums.OrderStatus   `json:"status"`
}

// OrderWrite is the body accepted by POST /orders and the full-record PUT /orders/{id}.
type OrderWrite struct {
	CustomerName  string  `json:"customer_name"`
	ProductName   string  `json:"product_name"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	TransactionID string  `json:"transaction_id"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
}

// WriteBody converts the record into its remote write shape.
func (o OrderRecord) WriteBody() OrderWrite {
	return OrderWrite{
		CustomerName:  o.CustomerName,
		ProductName:   o.ProductName,
		Quantity:      o.Quantity,
		Price:         o.Price.InexactFloat64(),
		TransactionID: o.TransactionID,
		PaymentMethod: o.PaymentMethod.String(),
		Status:        o.Status.String(),
	}
}

// OrderStatusUpdate is the partial PUT /orders/{id} body.
type OrderStatusUpdate struct {
	Status string `json:"status"`
}
