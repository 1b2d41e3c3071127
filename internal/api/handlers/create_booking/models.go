package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	placeBooking "github.com/m04kA/SMC-MarketplaceBooking/internal/usecase/place_booking"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid bookingDate")
	errInvalidTime = errors.New("invalid bookingTime")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Mode      string `json:"mode"`                // "cart" или "direct"
	ServiceID int64  `json:"serviceId,omitempty"` // только для direct
	Quantity  int    `json:"quantity,omitempty"`  // только для direct

	BookingDate string `json:"bookingDate"` // "2025-10-15"
	BookingTime string `json:"bookingTime"` // "10:00"

	BillingName    string `json:"billingName"`
	BillingEmail   string `json:"billingEmail"`
	BillingPhone   string `json:"billingPhone"`
	BillingAddress string `json:"billingAddress"`
	SyncProfile    bool   `json:"syncProfile,omitempty"`

	PaymentMethod   string  `json:"paymentMethod"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

type BookingItemResponse struct {
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	OwnerID     int64  `json:"ownerId"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	BookingID       int64                 `json:"bookingId"`
	Status          string                `json:"status"`
	Subtotal        string                `json:"subtotal"`
	Tax             string                `json:"tax"`
	TotalAmount     string                `json:"totalAmount"`
	Items           []BookingItemResponse `json:"items"`
	Notifications   int                   `json:"notificationsSent"`
	DroppedServices []int64               `json:"droppedServices,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*placeBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	bookingTime, err := types.NewTimeStringFromString(r.BookingTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	mode := placeBooking.Mode(r.Mode)
	if mode == "" {
		mode = placeBooking.ModeCart
	}

	return &placeBooking.Request{
		Actor:     actor,
		Mode:      mode,
		ServiceID: r.ServiceID,
		Quantity:  r.Quantity,
		Date:      bookingDate,
		Time:      bookingTime,
		Customer: placeBooking.CustomerDetails{
			Name:        r.BillingName,
			Email:       r.BillingEmail,
			Phone:       r.BillingPhone,
			Address:     r.BillingAddress,
			SyncProfile: r.SyncProfile,
		},
		PaymentMethod:   r.PaymentMethod,
		SpecialRequests: r.SpecialRequests,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *placeBooking.Response) *BookingResponse {
	out := &BookingResponse{
		BookingID:       resp.BookingID,
		Status:          string(resp.Status),
		Subtotal:        resp.Subtotal,
		Tax:             resp.Tax,
		TotalAmount:     resp.Total,
		Items:           make([]BookingItemResponse, 0, len(resp.Items)),
		Notifications:   resp.Notifications,
		DroppedServices: resp.Dropped,
	}

	for _, item := range resp.Items {
		out.Items = append(out.Items, BookingItemResponse{
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			OwnerID:     item.OwnerID,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal,
		})
	}

	return out
}
