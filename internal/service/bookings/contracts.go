package bookings

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований (чтение)
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetItems(ctx context.Context, bookingID int64) ([]domain.BookingItem, error)
	GetItemsByBookingIDs(ctx context.Context, bookingIDs []int64) (map[int64][]domain.BookingItem, error)
	GetHistory(ctx context.Context, bookingID int64) ([]domain.StatusHistoryEntry, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByOwnerWithFilter(ctx context.Context, filter domain.OwnerBookingsFilter) ([]*domain.Booking, error)
}

// AccessGuard проверка прав на бронирование
type AccessGuard interface {
	CanAccess(ctx context.Context, actor domain.Actor, bookingID int64, capability domain.Capability) bool
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
