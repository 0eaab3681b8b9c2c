package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID         uint
	CustomerID *int
	Status     string
	Total      decimal.Decimal
	CreatedAt  time.Time
	Items      []OrderItem
}

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

var orderStatuses = map[string]struct{}{
	OrderStatusPending:    {},
	OrderStatusProcessing: {},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// IsValidOrderStatus reports enum membership only. Any status may follow
// any other.
func IsValidOrderStatus(status string) bool {
	_, ok := orderStatuses[status]
	return ok
}

// ItemsTotal sums quantity x unit price over the order's items.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
