package cart

import "errors"

var (
	// ErrInvalidInput некорректное количество или идентификатор
	ErrInvalidInput = errors.New("cart.service: invalid input")

	// ErrEmptyCart после разрешения не осталось ни одной позиции
	ErrEmptyCart = errors.New("cart.service: cart is empty")

	// ErrServiceNotFound услуги нет в каталоге
	ErrServiceNotFound = errors.New("cart.service: service not found")

	// ErrServiceUnavailable услуга снята с продажи
	ErrServiceUnavailable = errors.New("cart.service: service unavailable")

	// ErrLineNotFound в корзине нет такой услуги
	ErrLineNotFound = errors.New("cart.service: cart line not found")

	// ErrCatalog каталог недоступен или вернул некорректный ответ
	ErrCatalog = errors.New("cart.service: catalog error")

	// ErrStorage ошибка хранилища корзин
	ErrStorage = errors.New("cart.service: storage error")
)
