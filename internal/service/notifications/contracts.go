package notifications

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

// Repository хранилище уведомлений
type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, filter domain.NotificationFilter) ([]domain.Notification, error)
	CountUnread(ctx context.Context, filter domain.NotificationFilter) (int, error)
	MarkRead(ctx context.Context, id int64, filter domain.NotificationFilter) error
	MarkAllRead(ctx context.Context, filter domain.NotificationFilter) (int64, error)
}

// Writer запись уведомлений (достаточно для рассылки)
type Writer interface {
	Create(ctx context.Context, n *domain.Notification) error
}

// AdminDirectory список администраторов
type AdminDirectory interface {
	ListIDsByRole(ctx context.Context, role domain.Role) ([]int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
