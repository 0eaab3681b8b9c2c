package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int
	Name        string
	Description string
	SKU         string
	Price       decimal.Decimal
	CategoryID  *int
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock reports whether the product is at or below threshold.
func (p Product) IsLowStock(threshold int) bool {
	return p.Stock <= threshold
}
