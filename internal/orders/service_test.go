package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/orderdesk/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderdesk/pkg/errors"
	"github.com/angelmondragon/orderdesk/pkg/models"
	"github.com/angelmondragon/orderdesk/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemote struct {
	orders       []models.OrderRecord
	listErr      error
	statusCalls  map[int64]string
	updateCalls  map[int64]models.OrderWrite
	deletedOrder []int64
}

func newStubRemote(orders ...models.OrderRecord) *stubRemote {
	return &stubRemote{orders: orders, statusCalls: map[int64]string{}, updateCalls: map[int64]models.OrderWrite{}}
}

func (s *stubRemote) ListOrders(context.Context) ([]models.OrderRecord, error) {
	return append([]models.OrderRecord(nil), s.orders...), s.listErr
}

func (s *stubRemote) UpdateOrderStatus(_ context.Context, id int64, status string) error {
	s.statusCalls[id] = status
	return nil
}

func (s *stubRemote) UpdateOrder(_ context.Context, id int64, body models.OrderWrite) error {
	s.updateCalls[id] = body
	return nil
}

func (s *stubRemote) DeleteOrder(_ context.Context, id int64) error {
	s.deletedOrder = append(s.deletedOrder, id)
	return nil
}

func order(id int64, customer, product string, qty int, price string, status enums.OrderStatus) models.OrderRecord {
	return models.OrderRecord{ID: id, CustomerName: customer, ProductName: product, Quantity: qty, Price: decimal.RequireFromString(price), Status: status}
}

func sampleOrders() []models.OrderRecord {
	return []models.OrderRecord{
		order(3, "Carol", "Lentils", 1, "4.00", enums.OrderStatusPending),
		order(1, "alice", "Rice", 2, "10.00", enums.OrderStatusProcessed),
		order(2, "Bob", "Basmati RICE", 5, "2.50", enums.OrderStatusPending),
	}
}

func ids(orders []models.OrderRecord) []int64 {
	out := []int64{}
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestListSearchSortAndPage(t *testing.T) {
	svc, err := NewService(newStubRemote(sampleOrders()...))
	require.NoError(t, err)

	page, err := svc.List(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(page.Items), "default sort is id ascending")

	page, err = svc.List(context.Background(), ListParams{Search: "rice"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(page.Items))

	page, err = svc.List(context.Background(), ListParams{Search: "CAROL"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(page.Items))

	page, err = svc.List(context.Background(), ListParams{Sort: Sort{Key: KeyPrice, Direction: Desc}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 2}, ids(page.Items))

	page, err = svc.List(context.Background(), ListParams{Params: pagination.Params{Limit: 2, Page: 2}})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(page.Items))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListPropagatesRemoteError(t *testing.T) {
	remote := newStubRemote()
	remote.listErr = errors.New("down")
	svc, _ := NewService(remote)
	_, err := svc.List(context.Background(), ListParams{})
	assert.Error(t, err)
}

func TestSortToggle(t *testing.T) {
	s := ParseSort("", "")
	assert.Equal(t, Sort{Key: KeyID, Direction: Asc}, s)

	s = s.Toggle(KeyID)
	assert.Equal(t, Sort{Key: KeyID, Direction: Desc}, s)

	s = s.Toggle(KeyID)
	assert.Equal(t, Sort{Key: KeyID, Direction: Asc}, s)

	s = s.Toggle(KeyStatus)
	assert.Equal(t, Sort{Key: KeyStatus, Direction: Asc}, s)

	assert.Equal(t, KeyID, ParseSort("drop table", "desc").Key)
}

func TestSortIsStableOnTies(t *testing.T) {
	orders := sampleOrders()
	SortOrders(orders, Sort{Key: KeyStatus})
	assert.Equal(t, []int64{3, 2, 1}, ids(orders), "pending orders keep their relative order")
}

func TestMarkProcessed(t *testing.T) {
	remote := newStubRemote()
	svc, _ := NewService(remote)
	require.NoError(t, svc.MarkProcessed(context.Background(), 7))
	assert.Equal(t, "Processed", remote.statusCalls[7])

	err := svc.MarkProcessed(context.Background(), 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateValidatesFields(t *testing.T) {
	remote := newStubRemote()
	svc, _ := NewService(remote)
	valid := UpdateInput{
		CustomerName:  " alice ",
		ProductName:   "Rice",
		Quantity:      2,
		Price:         decimal.RequireFromString("5.00"),
		TransactionID: "TXN-1",
		PaymentMethod: "Cash",
		Status:        "Completed",
	}

	require.NoError(t, svc.Update(context.Background(), 4, valid))
	body := remote.updateCalls[4]
	assert.Equal(t, "alice", body.CustomerName)
	assert.Equal(t, "Completed", body.Status)
	assert.Equal(t, 5.0, body.Price)

	missing := valid
	missing.ProductName = ""
	missing.Status = ""
	err := svc.Update(context.Background(), 4, missing)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	details := pkgerrors.As(err).Details().(map[string]any)
	assert.Equal(t, []string{"product_name", "status"}, details["missing"])

	badStatus := valid
	badStatus.Status = "Shipped"
	assert.True(t, pkgerrors.IsCode(svc.Update(context.Background(), 4, badStatus), pkgerrors.CodeValidation))

	badQty := valid
	badQty.Quantity = 0
	assert.True(t, pkgerrors.IsCode(svc.Update(context.Background(), 4, badQty), pkgerrors.CodeInvalidQuantity))
}

func TestDelete(t *testing.T) {
	remote := newStubRemote()
	svc, _ := NewService(remote)
	require.NoError(t, svc.Delete(context.Background(), 9))
	assert.Equal(t, []int64{9}, remote.deletedOrder)
}
