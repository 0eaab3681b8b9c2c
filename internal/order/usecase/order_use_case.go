package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem) (*domain.Order, error)
}

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	List(ctx context.Context, status string, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type OrderItemRepository interface {
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

type OrderUseCase struct {
	creator       OrderCreator
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	logger        *zap.Logger
}

func NewOrderUseCase(
	creator OrderCreator,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	logger *zap.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		creator:       creator,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		logger:        logger,
	}
}

// CreateOrder turns a draft into an order. A caller-supplied total is kept
// as given; otherwise it is the sum of the line subtotals.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, draft dto.OrderDraft) (*domain.Order, error) {
	status := draft.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !domain.IsValidOrderStatus(status) {
		return nil, invalidStatus(status)
	}

	items := make([]domain.OrderItem, len(draft.Items))
	for i, line := range draft.Items {
		items[i] = domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	order := domain.Order{
		CustomerID: draft.CustomerID,
		Status:     status,
		Items:      items,
	}
	if draft.Total != nil {
		order.Total = *draft.Total
	} else {
		order.Total = order.ItemsTotal()
		if !domain.IsStorableMoney(order.Total) {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "order.total",
				Message: "computed total " + order.Total.String() + " exceeds the storable maximum",
			})
		}
	}

	uc.logger.Info("create order started", zap.Int("itemCount", len(items)), zap.String("total", order.Total.StringFixed(2)))

	return uc.creator.CreateOrder(ctx, order, items)
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, id uint) (*domain.Order, error) {
	order, err := uc.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := uc.orderItemRepo.FindByOrderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading items of order %d: %w", id, err)
	}
	order.Items = items

	return order, nil
}

// ListOrders returns order headers, newest first. limit is clamped to
// MaxListLimit and defaults to DefaultListLimit when not positive.
func (uc *OrderUseCase) ListOrders(ctx context.Context, status string, limit int) ([]domain.Order, error) {
	if status != "" && !domain.IsValidOrderStatus(status) {
		return nil, invalidStatus(status)
	}

	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	return uc.orderRepo.List(ctx, status, limit)
}

// UpdateStatus moves an order to any status of the enum.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id uint, status string) (*domain.Order, error) {
	if !domain.IsValidOrderStatus(status) {
		return nil, invalidStatus(status)
	}

	if err := uc.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	uc.logger.Info("order status updated", zap.Uint("orderId", id), zap.String("status", status))

	return uc.GetOrder(ctx, id)
}

func invalidStatus(status string) error {
	return apperrors.NewValidationError("invalid order status", apperrors.ValidationDetail{
		Field:   "status",
		Message: fmt.Sprintf("status %q must be one of pending, processing, completed, cancelled", status),
	})
}
