package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/pricing"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований клиента
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetOwnerBookingsRequest запрос на получение бронирований владельца услуг
type GetOwnerBookingsRequest struct {
	OwnerID   int64      `json:"ownerId"`
	StartDate *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate   *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
	Status    *string    `json:"status,omitempty"`    // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetOwnerBookingsRequest) ToDomainFilter() (domain.OwnerBookingsFilter, error) {
	filter := domain.OwnerBookingsFilter{
		OwnerID:   r.OwnerID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

type BookingItemResponse struct {
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	OwnerID     int64  `json:"ownerId"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

type HistoryEntryResponse struct {
	Status    string    `json:"status"`
	Notes     *string   `json:"notes,omitempty"`
	ChangedBy *int64    `json:"changedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	Status          string  `json:"status"`
	BookingDate     string  `json:"bookingDate"` // "2025-10-15"
	BookingTime     string  `json:"bookingTime"` // "10:00"
	Subtotal        string  `json:"subtotal"`
	Tax             string  `json:"tax"`
	TotalAmount     string  `json:"totalAmount"`
	BillingName     string  `json:"billingName"`
	BillingEmail    string  `json:"billingEmail"`
	BillingPhone    string  `json:"billingPhone"`
	BillingAddress  string  `json:"billingAddress"`
	PaymentMethod   string  `json:"paymentMethod"`
	SpecialRequests *string `json:"specialRequests,omitempty"`

	Items   []BookingItemResponse  `json:"items"`
	History []HistoryEntryResponse `json:"history,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// HistoryResponse журнал статусов
type HistoryResponse struct {
	BookingID int64                  `json:"bookingId"`
	History   []HistoryEntryResponse `json:"history"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO.
// Total берётся из сохранённого значения и не пересчитывается; subtotal из замороженных цен позиций.
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	subtotal := pricing.Compute(pricing.FromItems(b.Items)).Subtotal

	resp := &BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		Status:          string(b.Status),
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		BookingTime:     b.BookingTime.String(),
		Subtotal:        subtotal.StringFixed(2),
		Tax:             b.TotalAmount.Sub(subtotal).StringFixed(2),
		TotalAmount:     b.TotalAmount.StringFixed(2),
		BillingName:     b.BillingName,
		BillingEmail:    b.BillingEmail,
		BillingPhone:    b.BillingPhone,
		BillingAddress:  b.BillingAddress,
		PaymentMethod:   b.PaymentMethod,
		SpecialRequests: b.SpecialRequests,
		Items:           make([]BookingItemResponse, 0, len(b.Items)),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	for _, item := range b.Items {
		resp.Items = append(resp.Items, BookingItemResponse{
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			OwnerID:     item.OwnerID,
			Quantity:    item.Quantity,
			Price:       item.Price.StringFixed(2),
			Subtotal:    item.Subtotal().StringFixed(2),
		})
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

func FromDomainHistory(history []domain.StatusHistoryEntry) []HistoryEntryResponse {
	resp := make([]HistoryEntryResponse, 0, len(history))
	for _, h := range history {
		resp = append(resp, HistoryEntryResponse{
			Status:    string(h.Status),
			Notes:     h.Notes,
			ChangedBy: h.ChangedBy,
			CreatedAt: h.CreatedAt,
		})
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
