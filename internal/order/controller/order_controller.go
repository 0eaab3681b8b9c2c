package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
)

const (
	maxItemQuantity = 10000
	defaultMaxItems = 100
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, draft dto.OrderDraft) (*domain.Order, error)
	GetOrder(ctx context.Context, id uint) (*domain.Order, error)
	ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) (*domain.Order, error)
}

type OrderController struct {
	useCase  OrderUseCase
	logger   *zap.Logger
	maxItems int
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger, maxItems int) *OrderController {
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	return &OrderController{
		useCase:  useCase,
		logger:   logger,
		maxItems: maxItems,
	}
}

func (c *OrderController) Register(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", c.ListOrders)
		r.Post("/", c.CreateOrder)
		r.Get("/{orderId}", c.GetOrder)
		r.Patch("/{orderId}/status", c.UpdateStatus)
	})
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateOrderRequest
	if !httpx.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}

	if err := c.validateCreateOrderRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		logger.Warn("create order rejected", zap.Int("violations", len(ve.Details)))
		httpx.WriteValidationError(w, logger, traceID, ve.Message, ve.Details...)
		return
	}

	order, err := c.useCase.CreateOrder(r.Context(), toDraft(req))
	if err != nil {
		httpx.HandleError(w, logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, logger, http.StatusCreated, dto.NewOrderResponse(*order))
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := httpx.IDParam(w, r, logger, traceID, "orderId")
	if !ok {
		return
	}

	order, err := c.useCase.GetOrder(r.Context(), uint(id))
	if err != nil {
		httpx.HandleError(w, logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, logger, http.StatusOK, dto.NewOrderResponse(*order))
}

func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			httpx.WriteValidationError(w, logger, traceID, "invalid limit", apperrors.ValidationDetail{
				Field:   "limit",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = v
	}

	orders, err := c.useCase.ListOrders(r.Context(), query.Get("status"), limit)
	if err != nil {
		httpx.HandleError(w, logger, traceID, err)
		return
	}

	out := make([]dto.OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = dto.NewOrderResponse(o)
	}
	httpx.WriteJSON(w, logger, http.StatusOK, out)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := httpx.IDParam(w, r, logger, traceID, "orderId")
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if !httpx.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}

	if !domain.IsValidOrderStatus(req.Status) {
		httpx.WriteValidationError(w, logger, traceID, "validation failed", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be one of pending, processing, completed, cancelled",
		})
		return
	}

	order, err := c.useCase.UpdateStatus(r.Context(), uint(id), req.Status)
	if err != nil {
		httpx.HandleError(w, logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, logger, http.StatusOK, dto.NewOrderResponse(*order))
}

func (c *OrderController) validateCreateOrderRequest(req dto.CreateOrderRequest) error {
	var details []apperrors.ValidationDetail

	if req.Order.CustomerID != nil && *req.Order.CustomerID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "order.customerId",
			Message: "customerId must be a positive integer",
		})
	}

	if req.Order.Status != nil && !domain.IsValidOrderStatus(*req.Order.Status) {
		details = append(details, apperrors.ValidationDetail{
			Field:   "order.status",
			Message: "status must be one of pending, processing, completed, cancelled",
		})
	}

	if req.Order.Total != nil {
		if req.Order.Total.IsNegative() {
			details = append(details, apperrors.ValidationDetail{
				Field:   "order.total",
				Message: "total must be non-negative",
			})
		} else if !domain.IsStorableMoney(*req.Order.Total) {
			details = append(details, apperrors.ValidationDetail{
				Field:   "order.total",
				Message: moneyMessage("total"),
			})
		}
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	if len(req.Items) > c.maxItems {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "items exceeds maximum of " + strconv.Itoa(c.maxItems),
		})
	}

	for idx, item := range req.Items {
		field := "items[" + strconv.Itoa(idx) + "]"

		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".productId",
				Message: "each productId must be a positive integer",
			})
		}

		if item.Quantity < 1 || item.Quantity > maxItemQuantity {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".quantity",
				Message: "quantity must be between 1 and 10000",
			})
		}

		if item.UnitPrice == nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".unitPrice",
				Message: "unitPrice is required",
			})
		} else if item.UnitPrice.IsNegative() {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".unitPrice",
				Message: "unitPrice must be non-negative",
			})
		} else if !domain.IsStorableMoney(*item.UnitPrice) {
			details = append(details, apperrors.ValidationDetail{
				Field:   field + ".unitPrice",
				Message: moneyMessage("unitPrice"),
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func moneyMessage(field string) string {
	return field + " must have at most 2 decimal places and be below 100000000"
}

func toDraft(req dto.CreateOrderRequest) dto.OrderDraft {
	draft := dto.OrderDraft{
		CustomerID: req.Order.CustomerID,
		Total:      req.Order.Total,
		Items:      make([]dto.LineItemDraft, len(req.Items)),
	}
	if req.Order.Status != nil {
		draft.Status = *req.Order.Status
	}
	for i, item := range req.Items {
		draft.Items[i] = dto.LineItemDraft{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: *item.UnitPrice,
		}
	}
	return draft
}
