package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/angelmondragon/orderdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/models"
	"github.com/angelmondragon/orderdesk/pkg/pagination"
	"github.com/shopspring/decimal"
)

// Remote is the order surface of the inventory service.
type Remote interface {
	ListOrders(ctx context.Context) ([]models.OrderRecord, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
	UpdateOrder(ctx context.Context, id int64, body models.OrderWrite) error
	DeleteOrder(ctx context.Context, id int64) error
}

// Service backs the order list screen.
type Service interface {
	List(ctx context.Context, params ListParams) (pagination.Page[models.OrderRecord], error)
	MarkProcessed(ctx context.Context, id int64) error
	Update(ctx context.Context, id int64, input UpdateInput) error
	Delete(ctx context.Context, id int64) error
}

type service struct {
	remote Remote
}

func NewService(remote Remote) (Service, error) {
	if remote == nil {
		return nil, fmt.Errorf("orders remote required")
	}
	return &service{remote: remote}, nil
}

// ListParams filters, sorts and pages the order list.
type ListParams struct {
	Search string
	Sort   Sort
	pagination.Params
}

// UpdateInput is a full order edit. Every field is required.
type UpdateInput struct {
	CustomerName  string
	ProductName   string
	Quantity      int
	Price         decimal.Decimal
	TransactionID string
	PaymentMethod string
	Status        string
}

func (s *service) List(ctx context.Context, params ListParams) (pagination.Page[models.OrderRecord], error) {
	all, err := s.remote.ListOrders(ctx)
	if err != nil {
		return pagination.Page[models.OrderRecord]{}, err
	}
	filtered := Filter(all, params.Search)
	SortOrders(filtered, params.Sort)
	return pagination.Slice(filtered, params.Params), nil
}

func (s *service) MarkProcessed(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	return s.remote.UpdateOrderStatus(ctx, id, enums.OrderStatusProcessed.String())
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	body, err := input.writeBody()
	if err != nil {
		return err
	}
	return s.remote.UpdateOrder(ctx, id, body)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	return s.remote.DeleteOrder(ctx, id)
}

func (in UpdateInput) writeBody() (models.OrderWrite, error) {
	missing := []string{}
	for name, value := range map[string]string{
		"customer_name":  in.CustomerName,
		"product_name":   in.ProductName,
		"transaction_id": in.TransactionID,
		"payment_method": in.PaymentMethod,
		"status":         in.Status,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return models.OrderWrite{}, pkgerrors.New(pkgerrors.CodeValidation, "all order fields are required").
			WithDetails(map[string]any{"missing": missing})
	}
	if in.Quantity < 1 {
		return models.OrderWrite{}, pkgerrors.InvalidQuantity(in.Quantity)
	}
	if in.Price.IsNegative() {
		return models.OrderWrite{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	status, err := enums.ParseOrderStatus(strings.TrimSpace(in.Status))
	if err != nil {
		return models.OrderWrite{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status")
	}
	method, err := enums.ParsePaymentMethod(strings.TrimSpace(in.PaymentMethod))
	if err != nil {
		return models.OrderWrite{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method")
	}

	return models.OrderRecord{
		CustomerName:  strings.TrimSpace(in.CustomerName),
		ProductName:   strings.TrimSpace(in.ProductName),
		Quantity:      in.Quantity,
		Price:         in.Price,
		TransactionID: strings.TrimSpace(in.TransactionID),
		PaymentMethod: method,
		Status:        status,
	}.WriteBody(), nil
}
