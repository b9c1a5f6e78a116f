package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nholm/storefront/internal/domain"
)

func TestPriceOrder_SingleLine(t *testing.T) {
	quote := PriceOrder([]domain.OrderItem{
		{Name: "LACK Coffee table", Price: 10.00, Quantity: 2},
	})

	assert.Equal(t, 20.00, quote.Subtotal)
	assert.Equal(t, 20.00, quote.Delivery)
	assert.Equal(t, 2.00, quote.Tax)
	assert.Equal(t, 42.00, quote.Total)
}

func TestPriceOrder_MultipleLines(t *testing.T) {
	quote := PriceOrder([]domain.OrderItem{
		{Price: 34.99, Quantity: 1},
		{Price: 24.99, Quantity: 3},
	})

	// 34.99 + 74.97 = 109.96
	assert.Equal(t, 109.96, quote.Subtotal)
	assert.Equal(t, 11.00, quote.Tax) // 10.996 rounds up
	assert.Equal(t, 140.96, quote.Total)
}

func TestPriceOrder_Empty(t *testing.T) {
	quote := PriceOrder(nil)

	assert.Equal(t, 0.00, quote.Subtotal)
	assert.Equal(t, 0.00, quote.Tax)
	assert.Equal(t, DeliveryFee, quote.Total)
}

func TestPriceOrder_TaxExcludesDelivery(t *testing.T) {
	quote := PriceOrder([]domain.OrderItem{
		{Price: 100.00, Quantity: 1},
	})

	assert.Equal(t, 10.00, quote.Tax)
	assert.Equal(t, 130.00, quote.Total)
}
