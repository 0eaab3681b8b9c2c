package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
	"storefront/internal/order/service"
	"storefront/internal/order/store"
	"storefront/internal/order/usecase"
)

type mockOrderUseCase struct {
	CreateOrderFunc  func(ctx context.Context, draft dto.OrderDraft) (*domain.Order, error)
	GetOrderFunc     func(ctx context.Context, id uint) (*domain.Order, error)
	ListOrdersFunc   func(ctx context.Context, status string, limit int) ([]domain.Order, error)
	UpdateStatusFunc func(ctx context.Context, id uint, status string) (*domain.Order, error)
}

func (m *mockOrderUseCase) CreateOrder(ctx context.Context, draft dto.OrderDraft) (*domain.Order, error) {
	return m.CreateOrderFunc(ctx, draft)
}

func (m *mockOrderUseCase) GetOrder(ctx context.Context, id uint) (*domain.Order, error) {
	return m.GetOrderFunc(ctx, id)
}

func (m *mockOrderUseCase) ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	return m.ListOrdersFunc(ctx, status, limit)
}

func (m *mockOrderUseCase) UpdateStatus(ctx context.Context, id uint, status string) (*domain.Order, error) {
	return m.UpdateStatusFunc(ctx, id, status)
}

func newTestRouter(uc OrderUseCase) http.Handler {
	r := chi.NewRouter()
	NewOrderController(uc, zap.NewNop(), 100).Register(r)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeValidation(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body httpx.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error)

	fields := make([]string, len(body.Details))
	for i, d := range body.Details {
		fields[i] = d.Field
	}
	return fields
}

func TestCreateOrder_Validation(t *testing.T) {
	called := false
	uc := &mockOrderUseCase{
		CreateOrderFunc: func(ctx context.Context, draft dto.OrderDraft) (*domain.Order, error) {
			called = true
			return nil, nil
		},
	}
	h := newTestRouter(uc)

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"empty items", `{"order":{},"items":[]}`, []string{"items"}},
		{"missing items", `{"order":{}}`, []string{"items"}},
		{"zero quantity", `{"items":[{"productId":1,"quantity":0,"unitPrice":"1.00"}]}`, []string{"items[0].quantity"}},
		{"quantity too large", `{"items":[{"productId":1,"quantity":10001,"unitPrice":"1.00"}]}`, []string{"items[0].quantity"}},
		{"missing unit price", `{"items":[{"productId":1,"quantity":1}]}`, []string{"items[0].unitPrice"}},
		{"negative unit price", `{"items":[{"productId":1,"quantity":1,"unitPrice":-0.01}]}`, []string{"items[0].unitPrice"}},
		{"unit price with three decimals", `{"items":[{"productId":1,"quantity":3,"unitPrice":"24.999"}]}`, []string{"items[0].unitPrice"}},
		{"unit price too large", `{"items":[{"productId":1,"quantity":1,"unitPrice":"100000000"}]}`, []string{"items[0].unitPrice"}},
		{"total too large", `{"order":{"total":"123456789012.5"},"items":[{"productId":1,"quantity":1,"unitPrice":"1.00"}]}`, []string{"order.total"}},
		{"total with three decimals", `{"order":{"total":"3.001"},"items":[{"productId":1,"quantity":1,"unitPrice":"1.00"}]}`, []string{"order.total"}},
		{"bad product id", `{"items":[{"productId":0,"quantity":1,"unitPrice":1}]}`, []string{"items[0].productId"}},
		{"bad header", `{"order":{"customerId":0,"status":"shipped","total":-1},"items":[{"productId":1,"quantity":1,"unitPrice":1}]}`,
			[]string{"order.customerId", "order.status", "order.total"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := decodeValidation(t, serve(h, http.MethodPost, "/orders", tt.body))
			assert.Equal(t, tt.fields, fields)
		})
	}

	assert.False(t, called)
}

func TestCreateOrder_TooManyItems(t *testing.T) {
	items := make([]string, 101)
	for i := range items {
		items[i] = fmt.Sprintf(`{"productId":%d,"quantity":1,"unitPrice":"1.00"}`, i+1)
	}
	body := `{"items":[` + strings.Join(items, ",") + `]}`

	fields := decodeValidation(t, serve(newTestRouter(&mockOrderUseCase{}), http.MethodPost, "/orders", body))
	assert.Equal(t, []string{"items"}, fields)
}

func TestCreateOrder_OversizedBody(t *testing.T) {
	item := `{"productId":1,"quantity":1,"unitPrice":"1.00"}`
	body := `{"items":[` + strings.Repeat(item+",", httpx.MaxBodyBytes/len(item)) + item + `]}`

	rec := serve(newTestRouter(&mockOrderUseCase{}), http.MethodPost, "/orders", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	fields := decodeValidation(t, serve(newTestRouter(&mockOrderUseCase{}), http.MethodPost, "/orders", `{"items":`))
	assert.Equal(t, []string{"body"}, fields)
}

func TestCreateOrder_AllowsRepeatedProducts(t *testing.T) {
	var got dto.OrderDraft
	uc := &mockOrderUseCase{
		CreateOrderFunc: func(ctx context.Context, draft dto.OrderDraft) (*domain.Order, error) {
			got = draft
			return &domain.Order{ID: 1, Status: domain.OrderStatusPending}, nil
		},
	}

	rec := serve(newTestRouter(uc), http.MethodPost, "/orders",
		`{"items":[{"productId":1,"quantity":2,"unitPrice":"1.00"},{"productId":1,"quantity":3,"unitPrice":"1.00"}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, got.Items, 2)
	assert.Nil(t, got.Total)
	assert.Equal(t, "", got.Status)
}

func TestCreateOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown product", apperrors.NewNotFoundError("product with id 9 not found"), http.StatusNotFound, "NOT_FOUND"},
		{"not persisted", apperrors.NewNotPersistedError("order not persisted", errors.New("connection reset")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"deadlock", apperrors.NewNotPersistedError("order not persisted", &mysql.MySQLError{Number: 1213}), http.StatusConflict, "DEADLOCK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockOrderUseCase{
				CreateOrderFunc: func(ctx context.Context, draft dto.OrderDraft) (*domain.Order, error) {
					return nil, tt.err
				},
			}

			rec := serve(newTestRouter(uc), http.MethodPost, "/orders", `{"items":[{"productId":9,"quantity":1,"unitPrice":"1.00"}]}`)
			require.Equal(t, tt.status, rec.Code)

			var body httpx.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.TraceID)
		})
	}
}

// The full create path against the in-memory store.
func TestCreateOrder_EndToEnd(t *testing.T) {
	st := store.NewMemoryStore()
	st.PutProduct(1, 10)
	st.PutProduct(2, 1)

	svc := service.NewOrderService(st, zap.NewNop(), service.Options{})
	uc := usecase.NewOrderUseCase(svc, nil, nil, zap.NewNop())
	h := newTestRouter(uc)

	rec := serve(h, http.MethodPost, "/orders", `{
		"order": {"customerId": 3},
		"items": [
			{"productId": 1, "quantity": 2, "unitPrice": "24.99"},
			{"productId": 2, "quantity": 5, "unitPrice": 8}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint(1), body.ID)
	assert.Equal(t, domain.OrderStatusPending, body.Status)
	assert.True(t, decimal.RequireFromString("89.98").Equal(body.Total), "got %s", body.Total)
	require.Len(t, body.Items, 2)
	assert.Equal(t, 1, body.Items[0].ProductID)
	assert.Equal(t, 2, body.Items[1].ProductID)
	for _, item := range body.Items {
		assert.NotZero(t, item.ID)
		assert.Equal(t, body.ID, item.OrderID)
	}

	stock, _ := st.Stock(1)
	assert.Equal(t, 8, stock)
	stock, _ = st.Stock(2)
	assert.Equal(t, 0, stock)
}

func TestGetOrder(t *testing.T) {
	uc := &mockOrderUseCase{
		GetOrderFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			if id != 5 {
				return nil, apperrors.NewNotFoundError("order not found")
			}
			return &domain.Order{ID: 5, Status: domain.OrderStatusPending, Items: []domain.OrderItem{
				{ID: 1, OrderID: 5, ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("3.50")},
			}}, nil
		},
	}
	h := newTestRouter(uc)

	rec := serve(h, http.MethodGet, "/orders/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, uint(5), body.Items[0].OrderID)

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/orders/6", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/orders/-1", "").Code)
}

func TestListOrders(t *testing.T) {
	var gotStatus string
	var gotLimit int
	uc := &mockOrderUseCase{
		ListOrdersFunc: func(ctx context.Context, status string, limit int) ([]domain.Order, error) {
			gotStatus, gotLimit = status, limit
			return []domain.Order{{ID: 2}, {ID: 1}}, nil
		},
	}
	h := newTestRouter(uc)

	rec := serve(h, http.MethodGet, "/orders?status=pending&limit=20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", gotStatus)
	assert.Equal(t, 20, gotLimit)

	var body []dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 2)

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/orders?limit=abc", "").Code)
}

func TestUpdateStatus(t *testing.T) {
	uc := &mockOrderUseCase{
		UpdateStatusFunc: func(ctx context.Context, id uint, status string) (*domain.Order, error) {
			return &domain.Order{ID: id, Status: status}, nil
		},
	}
	h := newTestRouter(uc)

	rec := serve(h, http.MethodPatch, "/orders/4/status", `{"status":"cancelled"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cancelled", body.Status)

	fields := decodeValidation(t, serve(h, http.MethodPatch, "/orders/4/status", `{"status":"refunded"}`))
	assert.Equal(t, []string{"status"}, fields)
}
