package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/angelmondragon/orderdesk/pkg/auth"
	"github.com/angelmondragon/orderdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/models"
	"github.com/shopspring/decimal"
)

// Remote is the inventory surface of the remote service.
type Remote interface {
	ListInventory(ctx context.Context) ([]models.CatalogItem, error)
	CreateInventoryItem(ctx context.Context, body models.InventoryWrite) (*models.CatalogItem, error)
	UpdateInventoryItem(ctx context.Context, id int64, body models.InventoryWrite) error
	RequestStock(ctx context.Context, body models.StockRequest) error
	TransferStock(ctx context.Context, body models.StockTransfer) error
}

// Service backs the inventory screen.
type Service interface {
	Save(ctx context.Context, id int64, input ItemInput) (*models.CatalogItem, error)
	Issue(ctx context.Context, id int64, amount int) (*models.CatalogItem, error)
	Request(ctx context.Context, id int64, amount int) error
	Transfer(ctx context.Context, id int64, input TransferInput) error
}

type service struct {
	remote Remote
	creds  auth.Source
}

func NewService(remote Remote, creds auth.Source) (Service, error) {
	if remote == nil {
		return nil, fmt.Errorf("inventory remote required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credentials source required")
	}
	return &service{remote: remote, creds: creds}, nil
}

// ItemInput is the inventory form. Name, quantity, supplier and price are all required.
type ItemInput struct {
	ItemName     string
	Quantity     *int
	SupplierName string
	Price        *decimal.Decimal
	Store        string
}

// TransferInput moves stock out of FromBranch, which defaults to the caller's branch.
type TransferInput struct {
	Amount     int
	FromBranch string
	ToBranch   string
}

// Save creates the item when id is zero and overwrites it otherwise.
func (s *service) Save(ctx context.Context, id int64, input ItemInput) (*models.CatalogItem, error) {
	item, err := input.item()
	if err != nil {
		return nil, err
	}
	body := item.WriteBody(item.Quantity)
	if id == 0 {
		return s.remote.CreateInventoryItem(ctx, body)
	}
	if id < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id must be positive")
	}
	if err := s.remote.UpdateInventoryItem(ctx, id, body); err != nil {
		return nil, err
	}
	item.ID = id
	return &item, nil
}

// Issue takes amount units out of stock. Issuing more than the current stock is refused.
func (s *service) Issue(ctx context.Context, id int64, amount int) (*models.CatalogItem, error) {
	if amount < 1 {
		return nil, pkgerrors.InvalidQuantity(amount)
	}
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if amount > item.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock").
			WithDetails(map[string]any{"item_id": id, "requested": amount, "available": item.Quantity})
	}
	remaining := item.Quantity - amount
	if err := s.remote.UpdateInventoryItem(ctx, id, item.WriteBody(remaining)); err != nil {
		return nil, err
	}
	item.Quantity = remaining
	return &item, nil
}

// Request asks for amount units of the item to be sent to the caller's branch.
func (s *service) Request(ctx context.Context, id int64, amount int) error {
	if amount < 1 {
		return pkgerrors.InvalidQuantity(amount)
	}
	branch, err := s.callerBranch(ctx)
	if err != nil {
		return err
	}
	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.remote.RequestStock(ctx, models.StockRequest{
		ItemID:   item.ID,
		ItemName: item.ItemName,
		Quantity: amount,
		Branch:   branch.String(),
	})
}

// Transfer moves stock between two distinct known branches.
func (s *service) Transfer(ctx context.Context, id int64, input TransferInput) error {
	if input.Amount < 1 {
		return pkgerrors.InvalidQuantity(input.Amount)
	}
	var from enums.Branch
	if strings.TrimSpace(input.FromBranch) == "" {
		caller, err := s.callerBranch(ctx)
		if err != nil {
			return err
		}
		from = caller
	} else {
		parsed, err := enums.ParseBranch(strings.TrimSpace(input.FromBranch))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown source branch")
		}
		from = parsed
	}
	to, err := enums.ParseBranch(strings.TrimSpace(input.ToBranch))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown destination branch")
	}
	if from == to {
		return pkgerrors.New(pkgerrors.CodeValidation, "source and destination branch must differ")
	}
	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.remote.TransferStock(ctx, models.StockTransfer{
		ItemID:     item.ID,
		ItemName:   item.ItemName,
		Quantity:   input.Amount,
		FromBranch: from.String(),
		ToBranch:   to.String(),
	})
}

func (s *service) callerBranch(ctx context.Context) (enums.Branch, error) {
	creds, err := s.creds.Credentials(ctx)
	if err != nil {
		return "", err
	}
	branch, err := enums.ParseBranch(strings.TrimSpace(creds.Branch))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "caller has no known branch")
	}
	return branch, nil
}

func (s *service) find(ctx context.Context, id int64) (models.CatalogItem, error) {
	if id <= 0 {
		return models.CatalogItem{}, pkgerrors.New(pkgerrors.CodeValidation, "item id must be positive")
	}
	items, err := s.remote.ListInventory(ctx)
	if err != nil {
		return models.CatalogItem{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.CatalogItem{}, pkgerrors.NotFound(id)
}

func (in ItemInput) item() (models.CatalogItem, error) {
	missing := []string{}
	if strings.TrimSpace(in.ItemName) == "" {
		missing = append(missing, "item_name")
	}
	if in.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if strings.TrimSpace(in.SupplierName) == "" {
		missing = append(missing, "supplier_name")
	}
	if in.Price == nil {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return models.CatalogItem{}, pkgerrors.New(pkgerrors.CodeValidation, "please fill all fields").
			WithDetails(map[string]any{"missing": missing})
	}
	if *in.Quantity < 0 {
		return models.CatalogItem{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if in.Price.IsNegative() {
		return models.CatalogItem{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return models.CatalogItem{
		ItemName:     strings.TrimSpace(in.ItemName),
		Quantity:     *in.Quantity,
		SupplierName: strings.TrimSpace(in.SupplierName),
		Price:        *in.Price,
		Store:        strings.TrimSpace(in.Store),
	}, nil
}
