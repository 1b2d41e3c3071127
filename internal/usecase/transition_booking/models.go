package transition_booking

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

// Request запрос на смену статуса
type Request struct {
	Actor     domain.Actor
	BookingID int64
	Target    domain.BookingStatus
	Notes     *string
	// ExpectedStatus статус, который видел клиент; если не задан, берется прочитанный до транзакции
	ExpectedStatus *domain.BookingStatus
}

// Response итог принятого перехода
type Response struct {
	BookingID int64
	From      domain.BookingStatus
	Status    domain.BookingStatus
	UpdatedAt time.Time
}
