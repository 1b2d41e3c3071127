package transition_booking

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/access"
)

func validateRequest(req *Request) error {
	if req.Actor.ID <= 0 {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if !req.Target.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Target)
	}

	if req.ExpectedStatus != nil && !req.ExpectedStatus.IsValid() {
		return fmt.Errorf("%w: unknown expected status %q", ErrInvalidInput, *req.ExpectedStatus)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes is longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// canRequest клиент бронирования может только отменить его;
// владелец услуги из бронирования или администратор может любой переход
func canRequest(actor domain.Actor, booking *domain.Booking, target domain.BookingStatus) bool {
	if target == domain.StatusCancelled && access.Allowed(actor, booking, domain.CapabilityCustomer) {
		return true
	}
	return access.Allowed(actor, booking, domain.CapabilityManage)
}
