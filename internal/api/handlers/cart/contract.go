package cart

import (
	"context"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/cart/models"
)

type CartService interface {
	Get(ctx context.Context, sessionID string) (*models.Resolved, error)
	Add(ctx context.Context, sessionID string, serviceID int64, quantity int) (*models.Resolved, error)
	Update(ctx context.Context, sessionID string, serviceID int64, quantity int) (*models.Resolved, error)
	Remove(ctx context.Context, sessionID string, serviceID int64) (*models.Resolved, error)
	Clear(ctx context.Context, sessionID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
