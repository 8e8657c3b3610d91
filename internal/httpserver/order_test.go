package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verdora/plantmarket/internal/models"
	"github.com/verdora/plantmarket/internal/service"
	"github.com/verdora/plantmarket/internal/transport"
)

type memoryIdem struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (m *memoryIdem) Claim(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func TestCreateOrderHandler_Success(t *testing.T) {
	r := newTestRepo(t)
	h := &OrderHTTP{Svc: &service.OrderService{Repo: r, Currency: "INR"}}

	p := seedProduct(t, r, 99, "Monstera Deliciosa", 100, 5)
	seedCartItem(t, r, 1, p.ID, 3)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/orders",
		`{"shipping_address":{"line1":"12 Garden Row","city":"Pune"}}`, 1, "user")

	require.NoError(t, h.CreateOrder(c))
	requireStatus(t, rec, http.StatusCreated)

	var order models.Order
	decodeBody(t, rec, &order)
	require.Equal(t, models.StatusPending, order.Status)
	require.Equal(t, float64(300), order.Total)
	require.Equal(t, "12 Garden Row", order.ShippingAddress.Line1)
	require.Len(t, order.Items, 1)
}

func TestCreateOrderHandler_EmptyCart(t *testing.T) {
	r := newTestRepo(t)
	h := &OrderHTTP{Svc: &service.OrderService{Repo: r, Currency: "INR"}}

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/orders", `{}`, 1, "user")

	require.NoError(t, h.CreateOrder(c))
	requireStatus(t, rec, http.StatusBadRequest)

	var resp transport.ErrorResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, "Cart is empty", resp.Message)
}

func TestCreateOrderHandler_InsufficientStock(t *testing.T) {
	r := newTestRepo(t)
	h := &OrderHTTP{Svc: &service.OrderService{Repo: r, Currency: "INR"}}

	p := seedProduct(t, r, 99, "Fiddle Leaf Fig", 50, 2)
	seedCartItem(t, r, 1, p.ID, 3)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/orders", `{}`, 1, "user")

	require.NoError(t, h.CreateOrder(c))
	requireStatus(t, rec, http.StatusBadRequest)

	var resp transport.ErrorResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, "Insufficient stock for Fiddle Leaf Fig", resp.Message)
}

func TestCreateOrderHandler_IdempotencyKeyHeader(t *testing.T) {
	r := newTestRepo(t)
	idem := &memoryIdem{}
	h := &OrderHTTP{Svc: &service.OrderService{Repo: r, Currency: "INR", Idem: idem}}

	p := seedProduct(t, r, 99, "Jade Plant", 30, 10)
	seedCartItem(t, r, 1, p.ID, 1)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/orders", `{}`, 1, "user")
	c.Request().Header.Set("Idempotency-Key", "req-1")
	require.NoError(t, h.CreateOrder(c))
	requireStatus(t, rec, http.StatusCreated)

	c, rec = newJSONContext(t, http.MethodPost, "/api/v1/orders", `{}`, 1, "user")
	c.Request().Header.Set("Idempotency-Key", "req-1")
	require.NoError(t, h.CreateOrder(c))
	requireStatus(t, rec, http.StatusConflict)
}

func TestGetOrderHandler_Visibility(t *testing.T) {
	r := newTestRepo(t)
	h := &OrderHTTP{Svc: &service.OrderService{Repo: r, Currency: "INR"}}

	p := seedProduct(t, r, 50, "Bonsai", 200, 5)
	seedCartItem(t, r, 1, p.ID, 1)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/orders", `{}`, 1, "user")
	require.NoError(t, h.CreateOrder(c))
	requireStatus(t, rec, http.StatusCreated)
	var order models.Order
	decodeBody(t, rec, &order)

	get := func(userID uint, role string) int {
		c, rec := newJSONContext(t, http.MethodGet, "/api/v1/orders/1", "", userID, role)
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(order.ID))
		require.NoError(t, h.GetOrder(c))
		return rec.Code
	}

	require.Equal(t, http.StatusOK, get(1, "user"), "owner can read")
	require.Equal(t, http.StatusOK, get(50, "user"), "seller with an item can read")
	require.Equal(t, http.StatusOK, get(1234, "admin"), "admin can read")
	require.Equal(t, http.StatusNotFound, get(2, "user"), "strangers get a 404")
}

func TestUpdateStatusHandler(t *testing.T) {
	r := newTestRepo(t)
	h := &OrderHTTP{Svc: &service.OrderService{Repo: r, Currency: "INR"}}

	p := seedProduct(t, r, 99, "Cactus", 15, 5)
	seedCartItem(t, r, 1, p.ID, 1)

	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/orders", `{}`, 1, "user")
	require.NoError(t, h.CreateOrder(c))
	var order models.Order
	decodeBody(t, rec, &order)

	update := func(status string) (*httptest.ResponseRecorder, models.Order) {
		c, rec := newJSONContext(t, http.MethodPut, "/api/v1/orders/1/status",
			fmt.Sprintf(`{"status":%q}`, status), 9, "admin")
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(order.ID))
		require.NoError(t, h.UpdateStatus(c))
		var got models.Order
		if rec.Code == http.StatusOK {
			decodeBody(t, rec, &got)
		}
		return rec, got
	}

	rec2, paid := update("paid")
	requireStatus(t, rec2, http.StatusOK)
	require.Equal(t, models.StatusPaid, paid.Status)
	require.NotEmpty(t, paid.Payment.ReferenceID)

	rec2, _ = update("pending")
	requireStatus(t, rec2, http.StatusConflict)

	rec2, _ = update("teleported")
	requireStatus(t, rec2, http.StatusBadRequest)
}

func TestListOrdersHandlers(t *testing.T) {
	r := newTestRepo(t)
	h := &OrderHTTP{Svc: &service.OrderService{Repo: r, Currency: "INR"}}

	p := seedProduct(t, r, 50, "Palm", 80, 10)
	seedCartItem(t, r, 1, p.ID, 2)
	c, rec := newJSONContext(t, http.MethodPost, "/api/v1/orders", `{}`, 1, "user")
	require.NoError(t, h.CreateOrder(c))
	requireStatus(t, rec, http.StatusCreated)

	c, rec = newJSONContext(t, http.MethodGet, "/api/v1/orders/mine", "", 1, "user")
	require.NoError(t, h.ListMyOrders(c))
	requireStatus(t, rec, http.StatusOK)
	var mine []models.Order
	decodeBody(t, rec, &mine)
	require.Len(t, mine, 1)

	c, rec = newJSONContext(t, http.MethodGet, "/api/v1/orders/seller", "", 50, "user")
	require.NoError(t, h.ListSellerOrders(c))
	requireStatus(t, rec, http.StatusOK)
	var sold []models.Order
	decodeBody(t, rec, &sold)
	require.Len(t, sold, 1)

	c, rec = newJSONContext(t, http.MethodGet, "/api/v1/orders", "", 9, "admin")
	require.NoError(t, h.ListAllOrders(c))
	requireStatus(t, rec, http.StatusOK)
	var all []models.Order
	decodeBody(t, rec, &all)
	require.Len(t, all, 1)
}
