package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type OrderResponse struct {
	ID         uint                `json:"id"`
	CustomerID *int                `json:"customerId"`
	Status     string              `json:"status"`
	Total      decimal.Decimal     `json:"total"`
	CreatedAt  time.Time           `json:"createdAt"`
	Items      []OrderItemResponse `json:"items,omitempty"`
}

type OrderItemResponse struct {
	ID        uint            `json:"id"`
	OrderID   uint            `json:"orderId"`
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func NewOrderResponse(o domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Total:      o.Total,
		CreatedAt:  o.CreatedAt,
	}

	if o.Items != nil {
		resp.Items = make([]OrderItemResponse, len(o.Items))
		for i, item := range o.Items {
			resp.Items[i] = OrderItemResponse{
				ID:        item.ID,
				OrderID:   item.OrderID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Subtotal:  item.Subtotal(),
			}
		}
	}

	return resp
}
