package transition_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_booking: invalid input data")

	// ErrPermissionDenied нет прав на этот переход; для неизвестного бронирования тот же ответ
	ErrPermissionDenied = errors.New("transition_booking: permission denied")

	// ErrInvalidTransition переход не разрешен конечным автоматом
	ErrInvalidTransition = errors.New("transition_booking: invalid status transition")

	// ErrConcurrencyConflict статус изменился с момента чтения
	ErrConcurrencyConflict = errors.New("transition_booking: booking status changed concurrently")

	// ErrPersistence ошибка хранилища, изменения откачены
	ErrPersistence = errors.New("transition_booking: persistence error")
)
