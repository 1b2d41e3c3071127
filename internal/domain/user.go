package domain

import "strconv"

type Role string

const (
	RoleClient Role = "client"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// User профиль из подсистемы идентификации
// Контакты синхронизируются при оформлении бронирования
type User struct {
	ID      int64
	Role    Role
	Name    string
	Email   *string
	Phone   *string
	Address *string
}

// Actor authenticated identity performing an operation
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Capability what an actor wants to do with a booking
type Capability string

const (
	// CapabilityView read booking details
	CapabilityView Capability = "view"
	// CapabilityCustomer act as the booking's customer
	CapabilityCustomer Capability = "customer"
	// CapabilityManage act as a service owner of the booking or an admin
	CapabilityManage Capability = "manage"
)

// CartSessionID корзина привязана к аутентифицированному пользователю
func (a Actor) CartSessionID() string {
	return strconv.FormatInt(a.ID, 10)
}
