// Package inventory owns product stock quantities. A Ledger is bound to
// whatever unit of work its caller opened; it has no transaction
// semantics of its own.
package inventory

import (
	"context"
	"fmt"
)

// Ledger reads and writes product stock. GetProductStock returns an
// *errors.NotFoundError for unknown products.
type Ledger interface {
	GetProductStock(ctx context.Context, productID int) (int, error)
	SetProductStock(ctx context.Context, productID int, stock int) error
}

type Adjustment struct {
	ProductID int
	Requested int
	Before    int
	After     int
}

// Clamped reports whether the request exceeded the available stock.
func (a Adjustment) Clamped() bool {
	return a.Requested > a.Before
}

// ClampedDecrement returns current - quantity, floored at zero.
func ClampedDecrement(current, quantity int) int {
	next := current - quantity
	if next < 0 {
		return 0
	}
	return next
}

// Decrement reads the product's stock, lowers it by quantity without going
// below zero, and writes it back.
func Decrement(ctx context.Context, ledger Ledger, productID int, quantity int) (Adjustment, error) {
	current, err := ledger.GetProductStock(ctx, productID)
	if err != nil {
		return Adjustment{}, err
	}

	adj := Adjustment{
		ProductID: productID,
		Requested: quantity,
		Before:    current,
		After:     ClampedDecrement(current, quantity),
	}

	if err := ledger.SetProductStock(ctx, productID, adj.After); err != nil {
		return Adjustment{}, fmt.Errorf("setting stock for product %d: %w", productID, err)
	}

	return adj, nil
}
