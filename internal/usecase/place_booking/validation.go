package place_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
	"github.com/m04kA/SMC-MarketplaceBooking/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Actor.ID <= 0 {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	if req.Actor.Role != domain.RoleClient {
		return ErrPermissionDenied
	}

	if !req.Mode.IsValid() {
		return fmt.Errorf("%w: mode must be %q or %q", ErrInvalidInput, ModeCart, ModeDirect)
	}

	if req.Mode == ModeDirect {
		if req.ServiceID <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if !domain.ValidQuantity(req.Quantity) {
			return fmt.Errorf("%w: quantity must be between %d and %d", ErrInvalidInput, domain.MinQuantity, domain.MaxQuantity)
		}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Time.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}

	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		return fmt.Errorf("%w: paymentMethod is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(method) > domain.MaxPaymentMethodLength {
		return fmt.Errorf("%w: paymentMethod is longer than %d characters", ErrInvalidInput, domain.MaxPaymentMethodLength)
	}

	if req.SpecialRequests != nil && utf8.RuneCountInString(*req.SpecialRequests) > domain.MaxSpecialRequestsLength {
		return fmt.Errorf("%w: specialRequests is longer than %d characters", ErrInvalidInput, domain.MaxSpecialRequestsLength)
	}

	fields := []struct {
		name  string
		value string
	}{
		{"name", req.Customer.Name},
		{"email", req.Customer.Email},
		{"phone", req.Customer.Phone},
		{"address", req.Customer.Address},
	}
	for _, field := range fields {
		if utf8.RuneCountInString(field.value) > domain.MaxBillingFieldLength {
			return fmt.Errorf("%w: billing %s is longer than %d characters", ErrInvalidInput, field.name, domain.MaxBillingFieldLength)
		}
	}

	return nil
}

// validateSchedule дата не раньше сегодняшней, на сегодня время еще не прошло
func validateSchedule(bookingDate time.Time, bookingTime types.TimeString, now time.Time) error {
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}

	if !isSameDay(bookingDate, now) {
		return nil
	}

	if bookingTime.IsBefore(types.NewTimeString(now)) {
		return fmt.Errorf("%w: time %s has already passed", ErrInvalidDate, bookingTime)
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня).
// Сравниваются только календарные день, месяц и год в зоне now: дата из запроса приходит полночью UTC.
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

// contactChanges поля профиля, отличающиеся от введенных; пустые значения не затирают профиль
func contactChanges(user *domain.User, details CustomerDetails) (name, email, phone, address *string) {
	differs := func(current *string, supplied string) *string {
		supplied = strings.TrimSpace(supplied)
		if supplied == "" {
			return nil
		}
		if current != nil && *current == supplied {
			return nil
		}
		return &supplied
	}

	name = differs(&user.Name, details.Name)
	email = differs(user.Email, details.Email)
	phone = differs(user.Phone, details.Phone)
	address = differs(user.Address, details.Address)
	return
}
