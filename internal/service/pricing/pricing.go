// Package pricing computes booking totals. Pure functions, no I/O.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

// Line минимальная строка для расчёта
type Line struct {
	Price    decimal.Decimal
	Quantity int
}

// Totals итог по набору строк
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Compute total = round2(subtotal * (1 + TaxRate)), tax = total - subtotal.
// Deterministic for identical input.
func Compute(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)

	total := subtotal.Mul(decimal.NewFromInt(1).Add(domain.TaxRate)).Round(2)

	return Totals{
		Subtotal: subtotal,
		Tax:      total.Sub(subtotal),
		Total:    total,
	}
}

// FromItems строки из позиций бронирования
func FromItems(items []domain.BookingItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{Price: item.Price, Quantity: item.Quantity})
	}
	return lines
}
