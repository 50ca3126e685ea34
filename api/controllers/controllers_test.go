package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/tvshop-backend/api/middleware"
	"github.com/angelmondragon/tvshop-backend/internal/access"
	checkoutsvc "github.com/angelmondragon/tvshop-backend/internal/checkout"
	"github.com/angelmondragon/tvshop-backend/internal/orders"
	"github.com/angelmondragon/tvshop-backend/pkg/config"
	"github.com/angelmondragon/tvshop-backend/pkg/db/models"
	"github.com/angelmondragon/tvshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/angelmondragon/tvshop-backend/pkg/logger"
	"github.com/angelmondragon/tvshop-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func withCustomer(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithRole(ctx, string(enums.RoleCustomer))
	ctx = middleware.WithSessionID(ctx, "session-1")
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (string, map[string]any) {
	t.Helper()
	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error.Code, payload.Error.Details
}

type recordingCheckout struct {
	actor access.Actor
	input checkoutsvc.Input
	err   error
}

func (r *recordingCheckout) Submit(ctx context.Context, actor access.Actor, input checkoutsvc.Input) (*orders.OrderDTO, error) {
	r.actor = actor
	r.input = input
	if r.err != nil {
		return nil, r.err
	}
	return &orders.OrderDTO{ID: uuid.New(), OwnerID: actor.UserID, Status: enums.OrderStatusSubmitted}, nil
}

type recordingOrders struct {
	status enums.OrderStatus
	calls  int
}

func (r *recordingOrders) ListOrders(context.Context, access.Actor, pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{Items: []orders.OrderDTO{}}, nil
}

func (r *recordingOrders) GetOrder(context.Context, uuid.UUID, access.Actor) (*orders.OrderDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (r *recordingOrders) DeleteOrder(context.Context, uuid.UUID, access.Actor) error {
	return nil
}

func (r *recordingOrders) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actor access.Actor) (*orders.OrderDTO, error) {
	r.calls++
	r.status = status
	return &orders.OrderDTO{ID: orderID, Status: status}, nil
}

type recordingStock struct {
	calls int
}

func (r *recordingStock) Set(ctx context.Context, tvID int64, quantity int) (*models.StockEntry, error) {
	r.calls++
	return &models.StockEntry{TelevisionID: tvID, Quantity: quantity}, nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestCheckoutMapsProfileFlag(t *testing.T) {
	svc := &recordingCheckout{}
	userID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"use_profile_data":true,"first_name":"ignored"}`))
	req = withCustomer(req, userID)
	rec := httptest.NewRecorder()

	Checkout(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, svc.input.UseProfileData)
	assert.Nil(t, svc.input.Shipping)
	assert.Equal(t, userID, svc.actor.UserID)
	assert.Equal(t, "session-1", svc.actor.SessionID)
}

func TestCheckoutMapsShippingFields(t *testing.T) {
	svc := &recordingCheckout{}
	body := `{"first_name":"Ana","last_name":"Lopez","address":"Calle Mayor 1","city":"Madrid","zipcode":"28001","phone_number":"+34600111222"}`
	req := withCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)), uuid.New())
	rec := httptest.NewRecorder()

	Checkout(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.input.Shipping)
	assert.False(t, svc.input.UseProfileData)
	assert.Equal(t, "Madrid", svc.input.Shipping.City)
	assert.Equal(t, "+34600111222", svc.input.Shipping.PhoneNumber)
}

func TestCheckoutRejectsUnknownFieldsAndLongValues(t *testing.T) {
	svc := &recordingCheckout{}
	for _, body := range []string{
		`{"coupon":"FREE"}`,
		`{"city":"` + strings.Repeat("x", 26) + `"}`,
	} {
		req := withCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)), uuid.New())
		rec := httptest.NewRecorder()

		Checkout(svc, testLogger()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		code, _ := decodeError(t, rec)
		assert.Equal(t, string(pkgerrors.CodeValidation), code)
	}
}

func TestCheckoutSurfacesStockShortfall(t *testing.T) {
	svc := &recordingCheckout{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock").WithDetails(map[string]any{
		"television_id": 7,
		"requested":     2,
		"available":     1,
	})}
	req := withCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"use_profile_data":true}`)), uuid.New())
	rec := httptest.NewRecorder()

	Checkout(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	code, details := decodeError(t, rec)
	assert.Equal(t, string(pkgerrors.CodeInsufficientStock), code)
	assert.EqualValues(t, 1, details["available"])
}

func TestAdminSetStockValidation(t *testing.T) {
	stock := &recordingStock{}
	handler := AdminSetStock(stock, testLogger())

	cases := []struct {
		name   string
		id     string
		body   string
		status int
	}{
		{name: "non numeric id", id: "abc", body: `{"quantity":3}`, status: http.StatusBadRequest},
		{name: "negative id", id: "-4", body: `{"quantity":3}`, status: http.StatusBadRequest},
		{name: "zero quantity", id: "7", body: `{"quantity":0}`, status: http.StatusBadRequest},
		{name: "negative quantity", id: "7", body: `{"quantity":-2}`, status: http.StatusBadRequest},
		{name: "valid", id: "7", body: `{"quantity":3}`, status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/stock/"+tc.id, strings.NewReader(tc.body))
			req = withURLParams(req, map[string]string{"televisionId": tc.id})
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
		})
	}
	assert.Equal(t, 1, stock.calls)
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	svc := &recordingOrders{}
	handler := AdminUpdateOrderStatus(svc, testLogger())
	orderID := uuid.New()

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"lost"}`))
	req = withURLParams(req, map[string]string{"orderId": orderID.String()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	_, details := decodeError(t, rec)
	assert.Contains(t, details, "allowed")
	assert.Zero(t, svc.calls)

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"cancelled"}`))
	req = withURLParams(req, map[string]string{"orderId": "not-a-uuid"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"cancelled"}`))
	req = withURLParams(req, map[string]string{"orderId": orderID.String()})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, enums.OrderStatusCancelled, svc.status)
}

func TestOrderDetailHidesMissingOrders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = withURLParams(withCustomer(req, uuid.New()), map[string]string{"orderId": uuid.NewString()})
	rec := httptest.NewRecorder()

	OrderDetail(&recordingOrders{}, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, string(pkgerrors.CodeNotFound), code)
}

func TestOrderDeleteReturnsNoContent(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req = withURLParams(withCustomer(req, uuid.New()), map[string]string{"orderId": uuid.NewString()})
	rec := httptest.NewRecorder()

	OrderDelete(&recordingOrders{}, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestHealthEndpoints(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	rec := httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get("X-TVShop-Env"))

	rec = httptest.NewRecorder()
	HealthReady(cfg, testLogger(), pinger{err: context.DeadlineExceeded}, pinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, string(pkgerrors.CodeDependency), code)
}

func TestHandlersRejectMissingServices(t *testing.T) {
	rec := httptest.NewRecorder()
	CartView(nil, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
