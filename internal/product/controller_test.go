package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
)

type mockService struct {
	Service
	ListProductsFunc  func(ctx context.Context, categoryID *int) ([]domain.Product, error)
	GetProductFunc    func(ctx context.Context, id int) (*domain.Product, error)
	SearchFunc        func(ctx context.Context, ids []int) ([]domain.Product, []int, error)
	CreateProductFunc func(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateProductFunc func(ctx context.Context, p domain.Product, stock *int) (*domain.Product, error)
	DeleteProductFunc func(ctx context.Context, id int) error
	ListLowStockFunc  func(ctx context.Context, threshold *int) ([]domain.Product, error)
	CreateCategoryFn  func(ctx context.Context, c domain.Category) (*domain.Category, error)
}

func (m *mockService) ListProducts(ctx context.Context, categoryID *int) ([]domain.Product, error) {
	return m.ListProductsFunc(ctx, categoryID)
}

func (m *mockService) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return m.GetProductFunc(ctx, id)
}

func (m *mockService) SearchProducts(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
	return m.SearchFunc(ctx, ids)
}

func (m *mockService) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	return m.CreateProductFunc(ctx, p)
}

func (m *mockService) UpdateProduct(ctx context.Context, p domain.Product, stock *int) (*domain.Product, error) {
	return m.UpdateProductFunc(ctx, p, stock)
}

func (m *mockService) DeleteProduct(ctx context.Context, id int) error {
	return m.DeleteProductFunc(ctx, id)
}

func (m *mockService) ListLowStock(ctx context.Context, threshold *int) ([]domain.Product, error) {
	return m.ListLowStockFunc(ctx, threshold)
}

func (m *mockService) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	return m.CreateCategoryFn(ctx, c)
}

func newTestRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	NewController(svc, zap.NewNop()).Register(r)
	return r
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestController_CreateProduct(t *testing.T) {
	var got domain.Product
	svc := &mockService{
		CreateProductFunc: func(ctx context.Context, p domain.Product) (*domain.Product, error) {
			got = p
			p.ID = 7
			return &p, nil
		},
	}

	rec := serve(newTestRouter(svc), http.MethodPost, "/products",
		`{"name":" Wireless Mouse ","sku":"WM-001","price":24.99,"stock":10,"categoryId":2}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Wireless Mouse", got.Name)
	assert.True(t, decimal.RequireFromString("24.99").Equal(got.Price))
	assert.Equal(t, 10, got.Stock)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, 2, *got.CategoryID)

	var body ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 7, body.ID)
	assert.Equal(t, "WM-001", body.SKU)
}

func TestController_CreateProduct_Validation(t *testing.T) {
	svc := &mockService{}

	rec := serve(newTestRouter(svc), http.MethodPost, "/products", `{"price":-1,"stock":-2}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body httpx.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error)

	fields := make([]string, 0, len(body.Details))
	for _, d := range body.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"name", "sku", "price", "stock"}, fields)
}

func TestController_CreateProduct_InvalidJSON(t *testing.T) {
	rec := serve(newTestRouter(&mockService{}), http.MethodPost, "/products", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestController_CreateProduct_DuplicateSKU(t *testing.T) {
	svc := &mockService{
		CreateProductFunc: func(ctx context.Context, p domain.Product) (*domain.Product, error) {
			return nil, apperrors.NewConflictError("product with sku WM-001 already exists")
		},
	}

	rec := serve(newTestRouter(svc), http.MethodPost, "/products", `{"name":"Mouse","sku":"WM-001","price":"1.00"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestController_GetProduct(t *testing.T) {
	svc := &mockService{
		GetProductFunc: func(ctx context.Context, id int) (*domain.Product, error) {
			if id != 3 {
				return nil, apperrors.NewNotFoundError("product not found")
			}
			return &domain.Product{ID: 3, Name: "Keyboard", Price: decimal.RequireFromString("49.00")}, nil
		},
	}
	h := newTestRouter(svc)

	rec := serve(h, http.MethodGet, "/products/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Keyboard", body.Name)

	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/products/4", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/products/abc", "").Code)
}

func TestController_ListProducts_CategoryFilter(t *testing.T) {
	var got *int
	svc := &mockService{
		ListProductsFunc: func(ctx context.Context, categoryID *int) ([]domain.Product, error) {
			got = categoryID
			return []domain.Product{}, nil
		},
	}
	h := newTestRouter(svc)

	rec := serve(h, http.MethodGet, "/products?categoryId=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, 2, *got)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = serve(h, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got)

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/products?categoryId=x", "").Code)
}

func TestController_ListLowStock(t *testing.T) {
	var got *int
	svc := &mockService{
		ListLowStockFunc: func(ctx context.Context, threshold *int) ([]domain.Product, error) {
			got = threshold
			return []domain.Product{{ID: 1, Stock: 0}}, nil
		},
	}
	h := newTestRouter(svc)

	rec := serve(h, http.MethodGet, "/products/low-stock?threshold=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, 0, *got)

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/products/low-stock?threshold=-1", "").Code)
}

func TestController_UpdateProduct_UsesPathID(t *testing.T) {
	var got domain.Product
	var gotStock *int
	svc := &mockService{
		UpdateProductFunc: func(ctx context.Context, p domain.Product, stock *int) (*domain.Product, error) {
			got = p
			gotStock = stock
			return &p, nil
		},
	}

	rec := serve(newTestRouter(svc), http.MethodPut, "/products/5", `{"name":"Mouse","sku":"WM-001","price":"19.99","stock":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, got.ID)
	require.NotNil(t, gotStock)
	assert.Equal(t, 3, *gotStock)
}

func TestController_UpdateProduct_WithoutStockKeepsIt(t *testing.T) {
	var gotStock *int
	called := false
	svc := &mockService{
		UpdateProductFunc: func(ctx context.Context, p domain.Product, stock *int) (*domain.Product, error) {
			called = true
			gotStock = stock
			p.Stock = 7
			return &p, nil
		},
	}

	rec := serve(newTestRouter(svc), http.MethodPut, "/products/5", `{"name":"Mouse","sku":"WM-001","price":"19.99"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, called)
	assert.Nil(t, gotStock)

	var body ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 7, body.Stock)
}

func TestController_ProductPrice_MustFitColumn(t *testing.T) {
	svc := &mockService{
		CreateProductFunc: func(ctx context.Context, p domain.Product) (*domain.Product, error) {
			return &p, nil
		},
	}
	h := newTestRouter(svc)

	for _, price := range []string{`"19.999"`, `"100000000"`, `123456789012.5`} {
		rec := serve(h, http.MethodPost, "/products", `{"name":"Mouse","sku":"WM-001","price":`+price+`}`)
		require.Equal(t, http.StatusBadRequest, rec.Code, price)

		var body httpx.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Details, 1)
		assert.Equal(t, "price", body.Details[0].Field)
	}

	assert.Equal(t, http.StatusCreated, serve(h, http.MethodPost, "/products", `{"name":"Mouse","sku":"WM-001","price":"99999999.99"}`).Code)
}

func TestController_DeleteProduct(t *testing.T) {
	svc := &mockService{
		DeleteProductFunc: func(ctx context.Context, id int) error {
			return nil
		},
	}

	rec := serve(newTestRouter(svc), http.MethodDelete, "/products/5", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestController_CreateCategory_RequiresName(t *testing.T) {
	svc := &mockService{
		CreateCategoryFn: func(ctx context.Context, c domain.Category) (*domain.Category, error) {
			c.ID = 1
			return &c, nil
		},
	}
	h := newTestRouter(svc)

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPost, "/categories", `{"name":"  "}`).Code)

	rec := serve(h, http.MethodPost, "/categories", `{"name":"Peripherals"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var body CategoryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.ID)
	assert.Equal(t, "Peripherals", body.Name)
}

func TestController_SearchProducts(t *testing.T) {
	svc := &mockService{
		SearchFunc: func(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
			return []domain.Product{{ID: 1, Name: "Mouse"}}, []int{3}, nil
		},
	}
	h := newTestRouter(svc)

	rec := serve(h, http.MethodPost, "/products/search", `{"productIds":[1,3]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body SearchProductsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Mouse", body.Products[0].Name)
	assert.Equal(t, []int{3}, body.NotFound)

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPost, "/products/search", `{"productIds":[]}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPost, "/products/search", `{"productIds":[0]}`).Code)
}
