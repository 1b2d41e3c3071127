package update_booking_status

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	transitionBooking "github.com/m04kA/SMC-MarketplaceBooking/internal/usecase/transition_booking"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
	ExpectedStatus *string `json:"expectedStatus,omitempty"` // статус, который видел клиент
}

// StatusResponse HTTP response model
type StatusResponse struct {
	BookingID      int64  `json:"bookingId"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
	UpdatedAt      string `json:"updatedAt"`
}

func (r *UpdateStatusRequest) ToUseCaseRequest(actor domain.Actor, bookingID int64) *transitionBooking.Request {
	req := &transitionBooking.Request{
		Actor:     actor,
		BookingID: bookingID,
		Target:    domain.BookingStatus(r.Status),
		Notes:     r.Notes,
	}
	if r.ExpectedStatus != nil {
		expected := domain.BookingStatus(*r.ExpectedStatus)
		req.ExpectedStatus = &expected
	}
	return req
}

func FromUseCaseResponse(resp *transitionBooking.Response) *StatusResponse {
	return &StatusResponse{
		BookingID:      resp.BookingID,
		PreviousStatus: string(resp.From),
		Status:         string(resp.Status),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
