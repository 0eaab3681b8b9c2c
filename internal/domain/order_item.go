package domain

import "github.com/shopspring/decimal"

type OrderItem struct {
	ID        uint
	OrderID   uint
	ProductID int
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
