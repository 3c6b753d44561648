package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/orderdesk/internal/inventory"
	"github.com/angelmondragon/orderdesk/internal/orders"
	"github.com/angelmondragon/orderdesk/internal/remote"
	"github.com/angelmondragon/orderdesk/internal/session"
	pkgAuth "github.com/angelmondragon/orderdesk/pkg/auth"
	"github.com/angelmondragon/orderdesk/pkg/config"
	"github.com/angelmondragon/orderdesk/pkg/enums"
	"github.com/angelmondragon/orderdesk/pkg/logger"
	"github.com/angelmondragon/orderdesk/pkg/metrics"
	"github.com/angelmondragon/orderdesk/pkg/models"
)

// fakeService is an in-memory stand-in for the inventory/order service.
type fakeService struct {
	mu          sync.Mutex
	items       map[int64]models.CatalogItem
	orders      []models.OrderRecord
	nextOrder   int64
	failOrderOn string
	requests    []models.StockRequest
}

func newFakeService(items ...models.CatalogItem) *fakeService {
	f := &fakeService{items: map[int64]models.CatalogItem{}, nextOrder: 1}
	for _, item := range items {
		f.items[item.ID] = item
	}
	return f
}

func (f *fakeService) handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/inventory", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		list := []models.CatalogItem{}
		for id := int64(1); id <= int64(len(f.items)); id++ {
			if item, ok := f.items[id]; ok {
				list = append(list, item)
			}
		}
		_ = json.NewEncoder(w).Encode(list)
	})
	r.Put("/inventory/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		var body models.InventoryWrite
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		item := f.items[id]
		item.Quantity = body.Quantity
		f.items[id] = item
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/inventory/request", func(w http.ResponseWriter, r *http.Request) {
		var body models.StockRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.requests = append(f.requests, body)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/orders", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.orders)
	})
	r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
		var body models.OrderWrite
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		if body.ProductName == f.failOrderOn {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"msg":"database locked"}`))
			return
		}
		order := models.OrderRecord{
			ID:            f.nextOrder,
			CustomerName:  body.CustomerName,
			ProductName:   body.ProductName,
			Quantity:      body.Quantity,
			Price:         decimal.NewFromFloat(body.Price),
			TransactionID: body.TransactionID,
			PaymentMethod: enums.PaymentMethod(body.PaymentMethod),
			Status:        enums.OrderStatus(body.Status),
		}
		f.nextOrder++
		f.orders = append(f.orders, order)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(order)
	})
	r.Put("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		var body models.OrderStatusUpdate
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.orders {
			if f.orders[i].ID == id {
				f.orders[i].Status = enums.OrderStatus(body.Status)
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	return r
}

func (f *fakeService) stock(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id].Quantity
}

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryRevocations) Revoke(_ context.Context, tokenID string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = true
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[tokenID], nil
}

type harness struct {
	t       *testing.T
	cfg     *config.Config
	fake    *fakeService
	handler http.Handler
}

func newHarness(t *testing.T, fake *fakeService) *harness {
	t.Helper()
	upstream := httptest.NewServer(fake.handler())
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		App:    config.AppConfig{Env: "dev", Port: "0"},
		Remote: config.RemoteConfig{BaseURL: upstream.URL, Timeout: 5 * time.Second},
		JWT:    config.JWTConfig{Secret: "test-secret", Issuer: "orderdesk"},
		Orders: config.OrdersConfig{PageSize: 25},
		HTTP:   config.HTTPConfig{CORSAllowedOrigins: []string{"http://localhost:3000"}},
	}

	reg := prometheus.NewRegistry()
	creds := pkgAuth.ContextSource{}
	client, err := remote.NewClient(cfg.Remote.BaseURL, creds, remote.WithMetrics(metrics.NewRemoteMetrics(reg)))
	require.NoError(t, err)

	sessions, err := session.NewRegistry(session.Deps{
		Remote:         client,
		Credentials:    creds,
		Logger:         logger.Nop(),
		Metrics:        metrics.NewCheckoutMetrics(reg),
		DefaultPayment: enums.PaymentMethodUPI,
	})
	require.NoError(t, err)
	ordersSvc, err := orders.NewService(client)
	require.NoError(t, err)
	inventorySvc, err := inventory.NewService(client, creds)
	require.NoError(t, err)

	revocations := &memoryRevocations{revoked: map[string]bool{}}
	handler := NewRouter(Deps{
		Config:      cfg,
		Logger:      logger.Nop(),
		Sessions:    sessions,
		Orders:      ordersSvc,
		Inventory:   inventorySvc,
		Revocations: revocations,
		Revoker:     revocations,
		Gatherer:    reg,
	})
	return &harness{t: t, cfg: cfg, fake: fake, handler: handler}
}

func (h *harness) token(username string, role enums.Role) string {
	h.t.Helper()
	token, err := pkgAuth.MintAccessToken(h.cfg.JWT, time.Now(), time.Hour, pkgAuth.AccessTokenPayload{
		Username: username,
		Role:     role,
		Branch:   "City Branch",
	})
	require.NoError(h.t, err)
	return token
}

func (h *harness) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	h.handler.ServeHTTP(resp, req)

	var decoded map[string]any
	if strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json") {
		require.NoError(h.t, json.Unmarshal(resp.Body.Bytes(), &decoded))
	}
	return resp, decoded
}

func data(body map[string]any) map[string]any {
	d, _ := body["data"].(map[string]any)
	return d
}

func sampleItems() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: 1, ItemName: "Rice", Price: decimal.RequireFromString("2.50"), Quantity: 10, SupplierName: "Acme", Store: "North"},
		{ID: 2, ItemName: "Lentils", Price: decimal.RequireFromString("4.00"), Quantity: 3, SupplierName: "Acme", Store: "North"},
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, newFakeService())

	resp, body := h.do(http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "live", data(body)["status"])
	assert.Equal(t, "dev", resp.Header().Get("X-OrderDesk-Env"))

	resp, _ = h.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp, _ = h.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	h := newHarness(t, newFakeService())
	resp, body := h.do(http.MethodGet, "/api/v1/navigation", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "UNAUTHENTICATED", body["error"].(map[string]any)["code"])
}

func TestNavigationByRole(t *testing.T) {
	h := newHarness(t, newFakeService())

	_, body := h.do(http.MethodGet, "/api/v1/navigation", h.token("bea", enums.RoleBranchUser), nil)
	assert.Equal(t, "place_order", data(body)["landing"])
	assert.Equal(t, []any{"place_order", "order_list"}, data(body)["sections"])

	_, body = h.do(http.MethodGet, "/api/v1/navigation", h.token("ivy", enums.RoleInventoryUser), nil)
	assert.Equal(t, "inventory", data(body)["landing"])
}

func TestSectionGating(t *testing.T) {
	h := newHarness(t, newFakeService(sampleItems()...))

	resp, _ := h.do(http.MethodGet, "/api/v1/cart", h.token("sam", enums.RoleSupplier), nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp, _ = h.do(http.MethodPost, "/api/v1/inventory/1/issue", h.token("bea", enums.RoleBranchUser), map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp, _ = h.do(http.MethodGet, "/api/v1/orders", h.token("ivy", enums.RoleInventoryUser), nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestPlaceOrderCompleted(t *testing.T) {
	fake := newFakeService(sampleItems()...)
	h := newHarness(t, fake)
	token := h.token("bea", enums.RoleBranchUser)

	resp, body := h.do(http.MethodGet, "/api/v1/catalog?q=ric", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, data(body)["items"], 1)

	resp, body = h.do(http.MethodPost, "/api/v1/cart/items", token, map[string]any{"item_id": 1, "quantity": 4})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "10", data(body)["total"])

	resp, _ = h.do(http.MethodPost, "/api/v1/cart/items", token, map[string]any{"item_id": 2, "quantity": 1})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp, body = h.do(http.MethodPost, "/api/v1/checkout", token, map[string]any{"payment_method": "Cash"})
	require.Equal(t, http.StatusOK, resp.Code, body)
	result := data(body)
	assert.Equal(t, "completed", result["outcome"])
	assert.Len(t, result["succeeded"], 2)
	assert.Empty(t, result["pending"])
	assert.Equal(t, float64(0), result["cart"].(map[string]any)["item_count"])

	assert.Equal(t, 6, fake.stock(1))
	assert.Equal(t, 2, fake.stock(2))

	resp, body = h.do(http.MethodGet, "/api/v1/orders?sort=price&dir=desc", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	list := data(body)
	items := list["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "Rice", first["product_name"])
	assert.Equal(t, "bea", first["customer_name"])
	assert.Equal(t, "Cash", first["payment_method"])
	assert.Equal(t, "Pending", first["status"])
	assert.True(t, strings.HasPrefix(first["transaction_id"].(string), "TXN-"))

	resp, _ = h.do(http.MethodPost, "/api/v1/orders/1/process", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	_, body = h.do(http.MethodGet, "/api/v1/orders?search=RICE", token, nil)
	processed := data(body)["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "Processed", processed["status"])
}

func TestCheckoutEmptyCartIsRejected(t *testing.T) {
	h := newHarness(t, newFakeService(sampleItems()...))
	resp, body := h.do(http.MethodPost, "/api/v1/checkout", h.token("bea", enums.RoleBranchUser), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	result := data(body)
	assert.Equal(t, "rejected", result["outcome"])
	assert.Equal(t, "EMPTY_CART", result["reason"].(map[string]any)["code"])
}

func TestAddAboveStockIsRefused(t *testing.T) {
	h := newHarness(t, newFakeService(sampleItems()...))
	resp, body := h.do(http.MethodPost, "/api/v1/cart/items", h.token("bea", enums.RoleBranchUser), map[string]any{"item_id": 2, "quantity": 9})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["error"].(map[string]any)["code"])

	resp, _ = h.do(http.MethodPost, "/api/v1/cart/items", h.token("bea", enums.RoleBranchUser), map[string]any{"item_id": 2, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCheckoutPartialFailure(t *testing.T) {
	fake := newFakeService(sampleItems()...)
	fake.failOrderOn = "Lentils"
	h := newHarness(t, fake)
	token := h.token("bea", enums.RoleBranchUser)

	h.do(http.MethodPost, "/api/v1/cart/items", token, map[string]any{"item_id": 1, "quantity": 2})
	h.do(http.MethodPost, "/api/v1/cart/items", token, map[string]any{"item_id": 2, "quantity": 1})

	resp, body := h.do(http.MethodPost, "/api/v1/checkout", token, nil)
	require.Equal(t, http.StatusConflict, resp.Code)
	result := data(body)
	assert.Equal(t, "partially_failed", result["outcome"])
	assert.Len(t, result["succeeded"], 1)
	failed := result["failed"].(map[string]any)
	assert.Equal(t, "DEPENDENCY_ERROR", failed["error"].(map[string]any)["code"])

	cart := result["cart"].(map[string]any)
	lines := cart["lines"].([]any)
	require.Len(t, lines, 1)
	assert.Equal(t, float64(2), lines[0].(map[string]any)["item_id"])
	assert.Equal(t, 8, fake.stock(1))
	assert.Equal(t, 3, fake.stock(2))
}

func TestInventoryRequestUsesCallerBranch(t *testing.T) {
	fake := newFakeService(sampleItems()...)
	h := newHarness(t, fake)
	resp, _ := h.do(http.MethodPost, "/api/v1/inventory/1/request", h.token("ivy", enums.RoleInventoryUser), map[string]any{"quantity": 5})
	require.Equal(t, http.StatusAccepted, resp.Code)
	require.Len(t, fake.requests, 1)
	assert.Equal(t, "City Branch", fake.requests[0].Branch)

	resp, body := h.do(http.MethodPost, "/api/v1/inventory/2/issue", h.token("ivy", enums.RoleInventoryUser), map[string]any{"quantity": 4})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["error"].(map[string]any)["code"])
}

func TestLogoutRevokesTokenAndClearsCart(t *testing.T) {
	h := newHarness(t, newFakeService(sampleItems()...))
	token := h.token("bea", enums.RoleBranchUser)

	resp, _ := h.do(http.MethodPost, "/api/v1/cart/items", token, map[string]any{"item_id": 1, "quantity": 1})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp, body := h.do(http.MethodPost, "/api/v1/session/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, true, data(body)["token_revoked"])

	resp, _ = h.do(http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	fresh := h.token("bea", enums.RoleBranchUser)
	_, body = h.do(http.MethodGet, "/api/v1/cart", fresh, nil)
	assert.Equal(t, float64(0), data(body)["item_count"])
}

func TestOrdersToggleFlipsCurrentSort(t *testing.T) {
	fake := newFakeService()
	fake.orders = []models.OrderRecord{
		{ID: 1, CustomerName: "bea", ProductName: "Rice", Quantity: 1, Status: enums.OrderStatusPending},
		{ID: 2, CustomerName: "cal", ProductName: "Oil", Quantity: 3, Status: enums.OrderStatusPending},
	}
	h := newHarness(t, fake)
	token := h.token("bea", enums.RoleBranchUser)

	resp, body := h.do(http.MethodGet, "/api/v1/orders?sort=id&dir=asc&toggle=id", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	list := data(body)
	assert.Equal(t, map[string]any{"key": "id", "direction": "desc"}, list["sort"])
	assert.Equal(t, float64(2), list["items"].([]any)[0].(map[string]any)["id"])

	_, body = h.do(http.MethodGet, "/api/v1/orders?sort=id&dir=desc&toggle=quantity", token, nil)
	list = data(body)
	assert.Equal(t, map[string]any{"key": "quantity", "direction": "asc"}, list["sort"])
	assert.Equal(t, float64(1), list["items"].([]any)[0].(map[string]any)["id"])
}

func TestCheckoutAcceptsChunkedEmptyBody(t *testing.T) {
	fake := newFakeService(sampleItems()...)
	h := newHarness(t, fake)
	token := h.token("bea", enums.RoleBranchUser)

	resp, _ := h.do(http.MethodPost, "/api/v1/cart/items", token, map[string]any{"item_id": 1, "quantity": 1})
	require.Equal(t, http.StatusCreated, resp.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(""))
	req.ContentLength = -1
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "completed", data(decoded)["outcome"])
	assert.Equal(t, 9, fake.stock(1))
}
