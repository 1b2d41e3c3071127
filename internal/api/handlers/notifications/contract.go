package notifications

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

type NotificationService interface {
	List(ctx context.Context, actor domain.Actor, unreadOnly bool, limit int) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, actor domain.Actor) (int, error)
	MarkRead(ctx context.Context, actor domain.Actor, notificationID int64) error
	MarkAllRead(ctx context.Context, actor domain.Actor) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
