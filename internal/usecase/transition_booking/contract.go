package transition_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetItems(ctx context.Context, bookingID int64) ([]domain.BookingItem, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (time.Time, error)
	AppendHistory(ctx context.Context, entry *domain.StatusHistoryEntry) error
}

// Notifier уведомление клиента о смене статуса
type Notifier interface {
	NotifyTransition(ctx context.Context, booking *domain.Booking, notes *string) error
}

// Metrics доменные счетчики
type Metrics interface {
	RecordTransition(from, to string)
	RecordNotifications(recipient string, count int)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
