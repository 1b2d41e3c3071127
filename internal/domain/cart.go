package domain

import "errors"

var (
	// ErrInvalidQuantity количество вне диапазона [MinQuantity, MaxQuantity]
	ErrInvalidQuantity = errors.New("domain: quantity out of range")

	// ErrCartLineNotFound в корзине нет строки с этой услугой
	ErrCartLineNotFound = errors.New("domain: cart line not found")
)

// CartLine one service in the cart
type CartLine struct {
	ServiceID int64 `json:"service_id"`
	Quantity  int   `json:"quantity"`
}

// Cart ordered set of lines, unique by service, ordered by first insertion
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func ValidQuantity(qty int) bool {
	return qty >= MinQuantity && qty <= MaxQuantity
}

// Add merges qty into an existing line or appends a new one
func (c *Cart) Add(serviceID int64, qty int) error {
	if !ValidQuantity(qty) {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ServiceID != serviceID {
			continue
		}
		if !ValidQuantity(c.Lines[i].Quantity + qty) {
			return ErrInvalidQuantity
		}
		c.Lines[i].Quantity += qty
		return nil
	}
	c.Lines = append(c.Lines, CartLine{ServiceID: serviceID, Quantity: qty})
	return nil
}

// Update replaces the quantity of an existing line
func (c *Cart) Update(serviceID int64, qty int) error {
	if !ValidQuantity(qty) {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ServiceID == serviceID {
			c.Lines[i].Quantity = qty
			return nil
		}
	}
	return ErrCartLineNotFound
}

func (c *Cart) Remove(serviceID int64) error {
	for i := range c.Lines {
		if c.Lines[i].ServiceID == serviceID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return ErrCartLineNotFound
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
