package cancel_booking

import (
	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	transitionBooking "github.com/m04kA/SMC-MarketplaceBooking/internal/usecase/transition_booking"
)

// CancelBookingRequest HTTP request model; тело необязательно
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
	ExpectedStatus     *string `json:"expectedStatus,omitempty"`
}

// ToUseCaseRequest отмена это переход в cancelled, причина пишется в историю
func (r *CancelBookingRequest) ToUseCaseRequest(actor domain.Actor, bookingID int64) *transitionBooking.Request {
	req := &transitionBooking.Request{
		Actor:     actor,
		BookingID: bookingID,
		Target:    domain.StatusCancelled,
		Notes:     r.CancellationReason,
	}
	if r.ExpectedStatus != nil {
		expected := domain.BookingStatus(*r.ExpectedStatus)
		req.ExpectedStatus = &expected
	}
	return req
}
