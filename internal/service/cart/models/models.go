package models

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/service/pricing"
)

// ResolvedLine позиция с актуальной ценой каталога
type ResolvedLine struct {
	ServiceID   int64
	ServiceName string
	OwnerID     int64
	Quantity    int
	Price       decimal.Decimal
	Subtotal    decimal.Decimal
}

// Resolved упорядоченные позиции и итоги
type Resolved struct {
	Lines   []ResolvedLine
	Totals  pricing.Totals
	Dropped []int64 // услуги из корзины, пропущенные как неизвестные или недоступные
}

// PricingLines строки для калькулятора
func (r *Resolved) PricingLines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, pricing.Line{Price: l.Price, Quantity: l.Quantity})
	}
	return lines
}
