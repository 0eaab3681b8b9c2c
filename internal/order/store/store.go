// Package store holds the persistence seam the order transaction manager
// runs against, with an in-memory and a MySQL implementation.
package store

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/inventory"
)

// UnitOfWork is the set of writes an order transaction may perform. Every
// call made through one UnitOfWork commits or rolls back together.
type UnitOfWork interface {
	inventory.Ledger

	// InsertOrder assigns order.ID and order.CreatedAt.
	InsertOrder(ctx context.Context, order *domain.Order) error

	// InsertItems persists items in the given order and returns them with
	// their generated IDs.
	InsertItems(ctx context.Context, items []domain.OrderItem) ([]domain.OrderItem, error)
}

// Store runs fn inside a single unit of work. If fn returns an error
// nothing it wrote is kept.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
