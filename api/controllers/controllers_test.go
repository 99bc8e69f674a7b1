package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/foodorder-backend/api/middleware"
	"github.com/angelmondragon/foodorder-backend/internal/cart"
	"github.com/angelmondragon/foodorder-backend/internal/orders"
	"github.com/angelmondragon/foodorder-backend/internal/tracking"
	"github.com/angelmondragon/foodorder-backend/pkg/config"
	"github.com/angelmondragon/foodorder-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodorder-backend/pkg/errors"
	"github.com/angelmondragon/foodorder-backend/pkg/pagination"
)

type stubCartService struct {
	added   cart.AddItemRequest
	userID  uuid.UUID
	cart    *cart.CartDTO
	err     error
	cleared bool
	updated *cart.UpdateItemRequest
	itemID  string
}

func (s *stubCartService) Add(_ context.Context, userID uuid.UUID, req cart.AddItemRequest) (*cart.CartDTO, error) {
	s.userID, s.added = userID, req
	return s.cart, s.err
}

func (s *stubCartService) List(_ context.Context, userID uuid.UUID) (*cart.CartDTO, error) {
	s.userID = userID
	return s.cart, s.err
}

func (s *stubCartService) UpdateItem(_ context.Context, userID uuid.UUID, itemID string, req cart.UpdateItemRequest) (*cart.CartDTO, error) {
	s.userID, s.itemID, s.updated = userID, itemID, &req
	return s.cart, s.err
}

func (s *stubCartService) DeleteItem(context.Context, uuid.UUID, string) (*cart.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(context.Context, uuid.UUID) error {
	s.cleared = true
	return s.err
}

type stubOrderService struct {
	order    *orders.OrderDTO
	lookedUp string
	err      error
}

func (s *stubOrderService) PlaceOrder(context.Context, uuid.UUID, orders.PlaceOrderRequest) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListOrders(context.Context, uuid.UUID) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, s.err
}

func (s *stubOrderService) GetOrder(_ context.Context, _ uuid.UUID, id string) (*orders.OrderDTO, error) {
	s.lookedUp = id
	return s.order, s.err
}

func (s *stubOrderService) AdvanceStep(context.Context, uuid.UUID, orders.AdvanceStepRequest) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListAll(context.Context, pagination.Params) (*pagination.Page[orders.OrderDTO], error) {
	return &pagination.Page[orders.OrderDTO]{Items: []orders.OrderDTO{}}, s.err
}

func (s *stubOrderService) Delete(context.Context, uuid.UUID, string) error {
	return s.err
}

type stubTrackingService struct {
	status *tracking.StatusDTO
	err    error
}

func (s stubTrackingService) GetStatus(context.Context, string) (*tracking.StatusDTO, error) {
	return s.status, s.err
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func authed(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCartAddReturnsCreated(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()
	svc := &stubCartService{cart: &cart.CartDTO{Items: []cart.CartItemDTO{}, TotalPrice: decimal.NewFromInt(200)}}

	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(`{"itemId":"`+itemID.String()+`","quantity":2}`))
	resp := httptest.NewRecorder()
	CartAdd(svc, nil).ServeHTTP(resp, authed(req, userID))

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, userID, svc.userID)
	assert.Equal(t, 2, svc.added.Quantity)

	var envelope struct {
		Data struct {
			Message string          `json:"message"`
			Cart    json.RawMessage `json:"cart"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "Item added to cart", envelope.Data.Message)
	assert.Contains(t, string(envelope.Data.Cart), `"totalPrice":"200"`)
}

func TestCartAddRejectsMissingQuantity(t *testing.T) {
	svc := &stubCartService{}
	req := httptest.NewRequest(http.MethodPost, "/cart", strings.NewReader(`{"itemId":"abc"}`))
	resp := httptest.NewRecorder()
	CartAdd(svc, nil).ServeHTTP(resp, authed(req, uuid.New()))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, uuid.Nil, svc.userID)
}

func TestCartUpdateItemRejectsBadQuantity(t *testing.T) {
	cases := map[string]string{
		"string":        `{"quantity":"abc"}`,
		"fraction":      `{"quantity":1.5}`,
		"above limit":   `{"quantity":1001}`,
		"negative":      `{"quantity":-1}`,
		"unknown field": `{"qty":2}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubCartService{}
			req := httptest.NewRequest(http.MethodPut, "/cart/item/item-1", strings.NewReader(body))
			req = withURLParam(authed(req, uuid.New()), "itemId", "item-1")
			resp := httptest.NewRecorder()
			CartUpdateItem(svc, nil).ServeHTTP(resp, req)

			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Contains(t, resp.Body.String(), string(pkgerrors.CodeValidation))
			assert.Nil(t, svc.updated)
		})
	}
}

func TestCartUpdateItemAcceptsEmptyBody(t *testing.T) {
	for name, body := range map[string]string{"empty": "", "empty object": "{}"} {
		t.Run(name, func(t *testing.T) {
			svc := &stubCartService{cart: &cart.CartDTO{Items: []cart.CartItemDTO{}}}
			req := httptest.NewRequest(http.MethodPut, "/cart/item/item-1", strings.NewReader(body))
			req = withURLParam(authed(req, uuid.New()), "itemId", "item-1")
			resp := httptest.NewRecorder()
			CartUpdateItem(svc, nil).ServeHTTP(resp, req)

			require.Equal(t, http.StatusOK, resp.Code)
			require.NotNil(t, svc.updated)
			assert.Nil(t, svc.updated.Quantity)
			assert.Equal(t, "item-1", svc.itemID)
			assert.Contains(t, resp.Body.String(), "Cart item updated successfully")
		})
	}
}

func TestCartRequiresCaller(t *testing.T) {
	resp := httptest.NewRecorder()
	CartList(&stubCartService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCartClear(t *testing.T) {
	svc := &stubCartService{}
	resp := httptest.NewRecorder()
	CartClear(svc, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodDelete, "/cart", nil), uuid.New()))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, svc.cleared)
	assert.Contains(t, resp.Body.String(), "Cart cleared successfully")
}

func TestOrderGetPassesRouteID(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")}
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/order/order/123456", nil), "id", "123456")
	resp := httptest.NewRecorder()
	OrderGet(svc, nil).ServeHTTP(resp, authed(req, uuid.New()))

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "123456", svc.lookedUp)
}

func TestOrderListEmptyIsArray(t *testing.T) {
	resp := httptest.NewRecorder()
	OrderList(&stubOrderService{}, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodGet, "/order/orders", nil), uuid.New()))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"data":[]}`, resp.Body.String())
}

func TestOrderAdvanceStepRequiresStep(t *testing.T) {
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tracklocation/orders/update-step", strings.NewReader(`{"orderId":"123456"}`))
	OrderAdvanceStep(&stubOrderService{}, nil).ServeHTTP(resp, authed(req, uuid.New()))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdminOrderListRejectsBadLimit(t *testing.T) {
	resp := httptest.NewRecorder()
	AdminOrderList(&stubOrderService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/admin/orders?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTrackingStatus(t *testing.T) {
	svc := stubTrackingService{status: &tracking.StatusDTO{
		OrderID: "123456",
		Step:    1,
		Label:   enums.OrderStepPacked.Label(),
		Status:  enums.OrderStatusPreparing,
	}}
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/tracking/orders/123456/status", nil), "orderId", "123456")
	resp := httptest.NewRecorder()
	TrackingStatus(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"label":"Order Packed"`)
}

func TestTrackingStatusInternalErrorIsGeneric(t *testing.T) {
	svc := stubTrackingService{err: errors.New("connection refused to 10.0.0.5")}
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/tracking/orders/1/status", nil), "orderId", "1")
	resp := httptest.NewRecorder()
	TrackingStatus(svc, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NotContains(t, resp.Body.String(), "10.0.0.5")
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, Dependency{Name: "db", Pinger: stubPinger{}}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil,
		Dependency{Name: "db", Pinger: stubPinger{}},
		Dependency{Name: "redis", Pinger: stubPinger{err: errors.New("down")}},
	).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Contains(t, resp.Body.String(), `"redis":"down"`)
}
