package dto

import "github.com/shopspring/decimal"

// OrderDraft is a schema-valid order that has not been persisted yet.
// A nil Total means the server computes it from the line items.
type OrderDraft struct {
	CustomerID *int
	Status     string
	Total      *decimal.Decimal
	Items      []LineItemDraft
}

type LineItemDraft struct {
	ProductID int
	Quantity  int
	UnitPrice decimal.Decimal
}
