package notifications

import "errors"

var (
	// ErrInvalidInput некорректные параметры запроса ленты
	ErrInvalidInput = errors.New("notifications.service: invalid input")

	// ErrNotificationNotFound уведомление не найдено среди адресованных актору
	ErrNotificationNotFound = errors.New("notifications.service: notification not found")

	// ErrPersistence ошибка хранилища
	ErrPersistence = errors.New("notifications.service: persistence error")
)
