package domain

import "time"

type NotificationType string

const (
	NotificationTypeBooking NotificationType = "booking"
)

// RecipientClass who a fan-out notification is meant for
type RecipientClass string

const (
	RecipientCustomer RecipientClass = "customer"
	RecipientOwner    RecipientClass = "owner"
	RecipientAdmin    RecipientClass = "admin"
)

// Notification persisted message for exactly one recipient.
// Owners are addressed through OwnerID, everybody else through UserID.
type Notification struct {
	ID        int64
	UserID    *int64
	OwnerID   *int64
	Type      NotificationType
	Title     string
	Message   string
	RelatedID *int64
	IsRead    bool
	CreatedAt time.Time
}

// HasSingleRecipient exactly one of UserID / OwnerID is set
func (n *Notification) HasSingleRecipient() bool {
	return (n.UserID == nil) != (n.OwnerID == nil)
}

// NotificationFilter выборка ленты уведомлений актора
type NotificationFilter struct {
	UserID       int64
	IncludeOwner bool // также owner_id = UserID (роль owner)
	UnreadOnly   bool
	Limit        int
}
