package place_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("place_booking: invalid input data")

	// ErrInvalidDate дата бронирования в прошлом или время уже прошло
	ErrInvalidDate = errors.New("place_booking: booking date is in the past")

	// ErrPermissionDenied бронировать может только клиент
	ErrPermissionDenied = errors.New("place_booking: only customers can place bookings")

	// ErrEmptyCart в корзине не осталось доступных позиций
	ErrEmptyCart = errors.New("place_booking: cart is empty")

	// ErrServiceNotFound услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("place_booking: service not found")

	// ErrServiceUnavailable услуга снята с продажи
	ErrServiceUnavailable = errors.New("place_booking: service unavailable")

	// ErrBookingCreationFailed транзакция откатилась, ничего не сохранено
	ErrBookingCreationFailed = errors.New("place_booking: booking creation failed")
)
