package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarketplaceBooking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// allowedTransitions граф переходов; терминальные статусы не имеют исходящих рёбер
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal returns true if no transition leaves the status
func (s BookingStatus) IsTerminal() bool {
	next, ok := allowedTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether s -> target is an edge of the lifecycle.
// Self transitions are never allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Booking is the aggregate root: header, frozen line items and scheduling
type Booking struct {
	ID          int64
	UserID      int64
	TotalAmount decimal.Decimal
	Status      BookingStatus
	BookingDate time.Time
	BookingTime types.TimeString

	// Billing details as entered at checkout
	BillingName     string
	BillingEmail    string
	BillingPhone    string
	BillingAddress  string
	PaymentMethod   string
	SpecialRequests *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []BookingItem
}

// BookingItem one line of a booking with the catalog data frozen at booking time
type BookingItem struct {
	ID          int64
	BookingID   int64
	ServiceID   int64
	ServiceName string
	OwnerID     int64
	Quantity    int
	Price       decimal.Decimal
}

// Subtotal price * quantity
func (i BookingItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OwnerIDs returns the distinct owners of the booking's items in first-seen order
func (b *Booking) OwnerIDs() []int64 {
	seen := make(map[int64]struct{}, len(b.Items))
	owners := make([]int64, 0, len(b.Items))
	for _, item := range b.Items {
		if _, ok := seen[item.OwnerID]; ok {
			continue
		}
		seen[item.OwnerID] = struct{}{}
		owners = append(owners, item.OwnerID)
	}
	return owners
}

// HasOwner returns true if at least one item belongs to ownerID
func (b *Booking) HasOwner(ownerID int64) bool {
	for _, item := range b.Items {
		if item.OwnerID == ownerID {
			return true
		}
	}
	return false
}

// OwnerBookingsFilter фильтр для получения бронирований владельца услуг
type OwnerBookingsFilter struct {
	OwnerID   int64          // Обязательный параметр
	StartDate *time.Time     // Начало периода (опционально)
	EndDate   *time.Time     // Конец периода (опционально)
	Status    *BookingStatus // Фильтр по статусу (опционально)
}

// StatusHistoryEntry append-only row of the booking audit trail
type StatusHistoryEntry struct {
	ID        int64
	BookingID int64
	Status    BookingStatus
	Notes     *string
	ChangedBy *int64 // nil для системных изменений
	CreatedAt time.Time
}
