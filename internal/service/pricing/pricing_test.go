package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-MarketplaceBooking/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "two services",
			lines:    []Line{{Price: dec("100"), Quantity: 2}, {Price: dec("50"), Quantity: 1}},
			subtotal: "250",
			tax:      "25",
			total:    "275",
		},
		{
			name:     "rounds half up to cents",
			lines:    []Line{{Price: dec("0.05"), Quantity: 1}},
			subtotal: "0.05",
			tax:      "0.01",
			total:    "0.06",
		},
		{
			name:     "cents",
			lines:    []Line{{Price: dec("19.99"), Quantity: 3}},
			subtotal: "59.97",
			tax:      "6",
			total:    "65.97",
		},
		{
			name:     "empty",
			subtotal: "0",
			tax:      "0",
			total:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.lines)
			assert.True(t, dec(tt.subtotal).Equal(got.Subtotal), "subtotal %s", got.Subtotal)
			assert.True(t, dec(tt.tax).Equal(got.Tax), "tax %s", got.Tax)
			assert.True(t, dec(tt.total).Equal(got.Total), "total %s", got.Total)
			assert.True(t, got.Subtotal.Add(got.Tax).Equal(got.Total))
		})
	}
}

func TestCompute_Deterministic(t *testing.T) {
	lines := []Line{{Price: dec("33.33"), Quantity: 7}, {Price: dec("0.01"), Quantity: 10}}
	first := Compute(lines)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute(lines))
	}
}

func TestFromItems(t *testing.T) {
	items := []domain.BookingItem{{Price: dec("100"), Quantity: 2}, {Price: dec("50"), Quantity: 1}}
	assert.True(t, dec("275").Equal(Compute(FromItems(items)).Total))
}
