package place_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	userRepo "github.com/m04kA/SMC-MarketplaceBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/integrations/catalogservice"
	cartModels "github.com/m04kA/SMC-MarketplaceBooking/internal/service/cart/models"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/notifications"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CreateItems(ctx context.Context, bookingID int64, items []domain.BookingItem) error
	AppendHistory(ctx context.Context, entry *domain.StatusHistoryEntry) error
}

// UserRepository профили клиентов (имя для уведомлений и синхронизация контактов)
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateContact(ctx context.Context, id int64, update userRepo.ContactUpdate) error
}

// CartService собирает позиции из корзины или прямого запроса
type CartService interface {
	ResolveCart(ctx context.Context, sessionID string) (*cartModels.Resolved, error)
	ResolveDirect(ctx context.Context, serviceID int64, quantity int) (*cartModels.Resolved, error)
	Clear(ctx context.Context, sessionID string) error
}

// CatalogClient повторное чтение услуг внутри транзакции
type CatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error)
}

// Notifier рассылка уведомлений о созданном бронировании
type Notifier interface {
	NotifyCreated(ctx context.Context, booking *domain.Booking, customerName string) (notifications.FanoutResult, error)
}

// Metrics доменные счетчики
type Metrics interface {
	RecordBookingCreated(mode string)
	RecordNotifications(recipient string, count int)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
