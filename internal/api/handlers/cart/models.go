package cart

import (
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/cart/models"
)

// AddItemRequest HTTP request model
type AddItemRequest struct {
	ServiceID int64 `json:"serviceId"`
	Quantity  int   `json:"quantity"`
}

// UpdateItemRequest HTTP request model
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	OwnerID     int64  `json:"ownerId"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

// CartResponse корзина с актуальными ценами и итогами
type CartResponse struct {
	Items           []CartLineResponse `json:"items"`
	Subtotal        string             `json:"subtotal"`
	Tax             string             `json:"tax"`
	Total           string             `json:"total"`
	DroppedServices []int64            `json:"droppedServices,omitempty"`
}

func FromResolved(resolved *models.Resolved) *CartResponse {
	resp := &CartResponse{
		Items:           make([]CartLineResponse, 0, len(resolved.Lines)),
		Subtotal:        resolved.Totals.Subtotal.StringFixed(2),
		Tax:             resolved.Totals.Tax.StringFixed(2),
		Total:           resolved.Totals.Total.StringFixed(2),
		DroppedServices: resolved.Dropped,
	}

	for _, line := range resolved.Lines {
		resp.Items = append(resp.Items, CartLineResponse{
			ServiceID:   line.ServiceID,
			ServiceName: line.ServiceName,
			OwnerID:     line.OwnerID,
			Quantity:    line.Quantity,
			Price:       line.Price.StringFixed(2),
			Subtotal:    line.Subtotal.StringFixed(2),
		})
	}

	return resp
}
