package cart

import "errors"

var (
	// ErrStorage ошибка хранилища корзины
	ErrStorage = errors.New("cart.repository: storage error")

	// ErrDecode повреждённые данные корзины
	ErrDecode = errors.New("cart.repository: failed to decode cart")
)
