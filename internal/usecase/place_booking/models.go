package place_booking

import (
	"time"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/types"
)

// Mode откуда берутся позиции бронирования
type Mode string

const (
	ModeCart   Mode = "cart"
	ModeDirect Mode = "direct"
)

func (m Mode) IsValid() bool {
	return m == ModeCart || m == ModeDirect
}

// CustomerDetails платежные данные клиента
type CustomerDetails struct {
	Name    string
	Email   string
	Phone   string
	Address string
	// SyncProfile перенести изменившиеся контакты в профиль клиента
	SyncProfile bool
}

// Request запрос на оформление бронирования
type Request struct {
	Actor domain.Actor
	Mode  Mode

	// Только для ModeDirect
	ServiceID int64
	Quantity  int

	Date time.Time
	Time types.TimeString

	Customer        CustomerDetails
	PaymentMethod   string
	SpecialRequests *string
}

// Item позиция созданного бронирования
type Item struct {
	ServiceID   int64
	ServiceName string
	OwnerID     int64
	Quantity    int
	Price       string
	Subtotal    string
}

// Response результат оформления
type Response struct {
	BookingID     int64
	Status        domain.BookingStatus
	Subtotal      string
	Tax           string
	Total         string
	Items         []Item
	Notifications int
	// Dropped услуги корзины, пропущенные как недоступные
	Dropped []int64
}
