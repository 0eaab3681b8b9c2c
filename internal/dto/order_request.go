package dto

import "github.com/shopspring/decimal"

type CreateOrderRequest struct {
	Order OrderHeaderRequest `json:"order"`
	Items []OrderItemRequest `json:"items"`
}

type OrderHeaderRequest struct {
	CustomerID *int             `json:"customerId"`
	Status     *string          `json:"status"`
	Total      *decimal.Decimal `json:"total"`
}

type OrderItemRequest struct {
	ProductID int              `json:"productId"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
