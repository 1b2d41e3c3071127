package access

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

// BookingReader чтение бронирования и его позиций
type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetItems(ctx context.Context, bookingID int64) ([]domain.BookingItem, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}
