package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/inventory"
	"storefront/internal/order/store"
)

type Options struct {
	// TxTimeout bounds a whole unit of work. Zero means no bound.
	TxTimeout time.Duration

	// StrictProductReferences aborts the order when a line item names a
	// product that does not exist. Otherwise the item is kept and its stock
	// adjustment skipped.
	StrictProductReferences bool
}

type OrderService struct {
	store  store.Store
	logger *zap.Logger
	tracer trace.Tracer
	opts   Options
}

func NewOrderService(st store.Store, logger *zap.Logger, opts Options) *OrderService {
	return &OrderService{
		store:  st,
		logger: logger,
		tracer: otel.Tracer("storefront/order"),
		opts:   opts,
	}
}

// CreateOrder persists order and items and decrements stock for every
// item, all in one unit of work. Stock is clamped at zero. On failure
// nothing is written and the error is a *errors.NotPersistedError, or a
// *errors.NotFoundError under strict product references.
func (s *OrderService) CreateOrder(ctx context.Context, order domain.Order, items []domain.OrderItem) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, apperrors.NewValidationError("order must contain at least one item", apperrors.ValidationDetail{
			Field:   "items",
			Message: "items must not be empty",
		})
	}

	ctx, span := s.tracer.Start(ctx, "order.create", trace.WithAttributes(
		attribute.Int("order.item_count", len(items)),
	))
	defer span.End()

	// Once started the transaction runs to commit or rollback; only the
	// configured timeout can cut it short.
	txCtx := context.WithoutCancel(ctx)
	if s.opts.TxTimeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(txCtx, s.opts.TxTimeout)
		defer cancel()
	}

	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	order.Items = nil

	var (
		created     domain.Order
		adjustments []inventory.Adjustment
		skipped     []int
	)

	err := s.store.RunInTx(txCtx, func(ctx context.Context, uow store.UnitOfWork) error {
		created = order
		adjustments = adjustments[:0]
		skipped = skipped[:0]

		if err := uow.InsertOrder(ctx, &created); err != nil {
			return fmt.Errorf("inserting order: %w", err)
		}

		lineItems := make([]domain.OrderItem, len(items))
		for i, item := range items {
			item.ID = 0
			item.OrderID = created.ID
			lineItems[i] = item
		}

		persisted, err := uow.InsertItems(ctx, lineItems)
		if err != nil {
			return fmt.Errorf("inserting order items: %w", err)
		}
		created.Items = persisted

		for _, item := range persisted {
			adj, err := inventory.Decrement(ctx, uow, item.ProductID, item.Quantity)
			if err != nil {
				if _, ok := apperrors.IsNotFoundError(err); ok && !s.opts.StrictProductReferences {
					skipped = append(skipped, item.ProductID)
					continue
				}
				return fmt.Errorf("adjusting stock for product %d: %w", item.ProductID, err)
			}
			adjustments = append(adjustments, adj)
		}

		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order not persisted")

		if nfe, ok := apperrors.IsNotFoundError(err); ok {
			s.logger.Warn("order rejected: unknown product", zap.Error(err))
			return nil, nfe
		}

		s.logger.Error("order transaction rolled back", zap.Int("itemCount", len(items)), zap.Error(err))
		return nil, apperrors.NewNotPersistedError("order not persisted", err)
	}

	span.SetAttributes(attribute.Int64("order.id", int64(created.ID)))

	for _, productID := range skipped {
		s.logger.Warn("stock adjustment skipped: product not found", zap.Uint("orderId", created.ID), zap.Int("productId", productID))
	}
	for _, adj := range adjustments {
		if adj.Clamped() {
			s.logger.Warn("stock clamped at zero",
				zap.Uint("orderId", created.ID),
				zap.Int("productId", adj.ProductID),
				zap.Int("requested", adj.Requested),
				zap.Int("available", adj.Before),
			)
		}
	}

	s.logger.Info("order committed",
		zap.Uint("orderId", created.ID),
		zap.Int("itemCount", len(created.Items)),
		zap.String("total", created.Total.StringFixed(2)),
	)

	return &created, nil
}
