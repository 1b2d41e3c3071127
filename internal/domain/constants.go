package domain

import "github.com/shopspring/decimal"

// TaxRate fixed tax applied on top of the subtotal
var TaxRate = decimal.NewFromFloat(0.10)

// Business validation constants
const (
	MinQuantity              = 1
	MaxQuantity              = 10
	MaxPaymentMethodLength   = 50
	MaxSpecialRequestsLength = 1000
	MaxNotesLength           = 500
	MaxBillingFieldLength    = 255
	MaxNotificationsLimit    = 100
	DefaultNotificationLimit = 20
)

// InitialHistoryNotes заметка первой записи истории
const InitialHistoryNotes = "created"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
