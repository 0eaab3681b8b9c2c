package product

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
)

const maxSearchIDs = 100

type Controller struct {
	service Service
	logger  *zap.Logger
}

func NewController(service Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) Register(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", c.HandleListProducts)
		r.Post("/", c.HandleCreateProduct)
		r.Get("/low-stock", c.HandleListLowStock)
		r.Post("/search", c.HandleSearchProducts)
		r.Get("/{productId}", c.HandleGetProduct)
		r.Put("/{productId}", c.HandleUpdateProduct)
		r.Delete("/{productId}", c.HandleDeleteProduct)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", c.HandleListCategories)
		r.Post("/", c.HandleCreateCategory)
		r.Put("/{categoryId}", c.HandleUpdateCategory)
		r.Delete("/{categoryId}", c.HandleDeleteCategory)
	})
}

func (c *Controller) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	categoryID, ok := c.optionalIntQuery(w, r, traceID, "categoryId", 1)
	if !ok {
		return
	}

	products, err := c.service.ListProducts(r.Context(), categoryID)
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, toProductDTOs(products))
}

func (c *Controller) HandleListLowStock(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	threshold, ok := c.optionalIntQuery(w, r, traceID, "threshold", 0)
	if !ok {
		return
	}

	products, err := c.service.ListLowStock(r.Context(), threshold)
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, toProductDTOs(products))
}

func (c *Controller) HandleSearchProducts(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	var req SearchProductsRequest
	if !httpx.DecodeJSON(w, r, c.logger, traceID, &req) {
		return
	}

	if details := validateSearchRequest(req); len(details) > 0 {
		httpx.WriteValidationError(w, c.logger, traceID, "validation failed", details...)
		return
	}

	found, notFound, err := c.service.SearchProducts(r.Context(), req.ProductIDs)
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, SearchProductsResponse{
		Products: toProductDTOs(found),
		NotFound: notFound,
	})
}

func (c *Controller) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	id, ok := httpx.IDParam(w, r, c.logger, traceID, "productId")
	if !ok {
		return
	}

	p, err := c.service.GetProduct(r.Context(), id)
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, toProductDTO(*p))
}

func (c *Controller) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	p, stock, ok := c.decodeProduct(w, r, traceID)
	if !ok {
		return
	}
	if stock != nil {
		p.Stock = *stock
	}

	created, err := c.service.CreateProduct(r.Context(), p)
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusCreated, toProductDTO(*created))
}

func (c *Controller) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	id, ok := httpx.IDParam(w, r, c.logger, traceID, "productId")
	if !ok {
		return
	}

	p, stock, ok := c.decodeProduct(w, r, traceID)
	if !ok {
		return
	}
	p.ID = id

	updated, err := c.service.UpdateProduct(r.Context(), p, stock)
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, toProductDTO(*updated))
}

func (c *Controller) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	id, ok := httpx.IDParam(w, r, c.logger, traceID, "productId")
	if !ok {
		return
	}

	if err := c.service.DeleteProduct(r.Context(), id); err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	categories, err := c.service.ListCategories(r.Context())
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	out := make([]CategoryDTO, 0, len(categories))
	for _, cat := range categories {
		out = append(out, toCategoryDTO(cat))
	}
	httpx.WriteJSON(w, c.logger, http.StatusOK, out)
}

func (c *Controller) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	cat, ok := c.decodeCategory(w, r, traceID)
	if !ok {
		return
	}

	created, err := c.service.CreateCategory(r.Context(), cat)
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusCreated, toCategoryDTO(*created))
}

func (c *Controller) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	id, ok := httpx.IDParam(w, r, c.logger, traceID, "categoryId")
	if !ok {
		return
	}

	cat, ok := c.decodeCategory(w, r, traceID)
	if !ok {
		return
	}
	cat.ID = id

	updated, err := c.service.UpdateCategory(r.Context(), cat)
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, toCategoryDTO(*updated))
}

func (c *Controller) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	id, ok := httpx.IDParam(w, r, c.logger, traceID, "categoryId")
	if !ok {
		return
	}

	if err := c.service.DeleteCategory(r.Context(), id); err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeProduct returns the requested stock separately so an update that
// omits it leaves the stored stock alone.
func (c *Controller) decodeProduct(w http.ResponseWriter, r *http.Request, traceID string) (domain.Product, *int, bool) {
	var req ProductRequest
	if !httpx.DecodeJSON(w, r, c.logger, traceID, &req) {
		return domain.Product{}, nil, false
	}

	if err := validateProductRequest(req); err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return domain.Product{}, nil, false
	}

	p := domain.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		SKU:         strings.TrimSpace(req.SKU),
		Price:       *req.Price,
		CategoryID:  req.CategoryID,
	}
	return p, req.Stock, true
}

func validateProductRequest(req ProductRequest) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}

	if strings.TrimSpace(req.SKU) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "sku", Message: "sku is required"})
	}

	if req.Price == nil {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price is required"})
	} else if req.Price.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"})
	} else if !domain.IsStorableMoney(*req.Price) {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must have at most 2 decimal places and be below 100000000"})
	}

	if req.Stock != nil && *req.Stock < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "stock", Message: "stock must be non-negative"})
	}

	if req.CategoryID != nil && *req.CategoryID <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "categoryId", Message: "categoryId must be a positive integer"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func validateSearchRequest(req SearchProductsRequest) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail

	if len(req.ProductIDs) == 0 {
		details = append(details, apperrors.ValidationDetail{Field: "productIds", Message: "productIds must not be empty"})
	}

	if len(req.ProductIDs) > maxSearchIDs {
		details = append(details, apperrors.ValidationDetail{Field: "productIds", Message: "productIds exceeds maximum of " + strconv.Itoa(maxSearchIDs)})
	}

	for idx, id := range req.ProductIDs {
		if id <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "productIds[" + strconv.Itoa(idx) + "]",
				Message: "each productId must be a positive integer",
			})
		}
	}

	return details
}

func (c *Controller) decodeCategory(w http.ResponseWriter, r *http.Request, traceID string) (domain.Category, bool) {
	var req CategoryRequest
	if !httpx.DecodeJSON(w, r, c.logger, traceID, &req) {
		return domain.Category{}, false
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httpx.WriteValidationError(w, c.logger, traceID, "validation failed", apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
		return domain.Category{}, false
	}

	return domain.Category{Name: name, Description: req.Description}, true
}

func (c *Controller) optionalIntQuery(w http.ResponseWriter, r *http.Request, traceID string, name string, minValue int) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < minValue {
		httpx.WriteValidationError(w, c.logger, traceID, "invalid "+name, apperrors.ValidationDetail{
			Field:   name,
			Message: name + " must be an integer of at least " + strconv.Itoa(minValue),
		})
		return nil, false
	}
	return &v, true
}
