// Package access decides whether an actor may act on a booking.
// Every mutating operation and every booking read goes through Guard.
package access

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

type Guard struct {
	bookings BookingReader
	logger   Logger
}

func NewGuard(bookings BookingReader, logger Logger) *Guard {
	return &Guard{bookings: bookings, logger: logger}
}

// CanAccess loads the booking with its items and applies Allowed.
// Unknown bookings and lookup failures yield false, never an error,
// so callers cannot tell "missing" from "forbidden".
func (g *Guard) CanAccess(ctx context.Context, actor domain.Actor, bookingID int64, capability domain.Capability) bool {
	booking, err := g.bookings.GetByID(ctx, bookingID)
	if err != nil {
		g.logger.Warn("access check: booking_id=%d actor_id=%d: %v", bookingID, actor.ID, err)
		return false
	}

	items, err := g.bookings.GetItems(ctx, bookingID)
	if err != nil {
		g.logger.Warn("access check: items of booking_id=%d: %v", bookingID, err)
		return false
	}
	booking.Items = items

	return Allowed(actor, booking, capability)
}

// Allowed decides on an already loaded booking (Items must be populated)
func Allowed(actor domain.Actor, booking *domain.Booking, capability domain.Capability) bool {
	if booking == nil || actor.ID <= 0 {
		return false
	}

	switch capability {
	case domain.CapabilityCustomer:
		return isCustomer(actor, booking)
	case domain.CapabilityManage:
		return canManage(actor, booking)
	case domain.CapabilityView:
		return isCustomer(actor, booking) || canManage(actor, booking)
	default:
		return false
	}
}

func isCustomer(actor domain.Actor, booking *domain.Booking) bool {
	return actor.ID == booking.UserID
}

func canManage(actor domain.Actor, booking *domain.Booking) bool {
	return actor.IsAdmin() || booking.HasOwner(actor.ID)
}
