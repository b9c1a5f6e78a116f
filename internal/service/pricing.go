package service

import (
	"math"

	"github.com/nholm/storefront/internal/domain"
)

const (
	// DeliveryFee is flat per order.
	DeliveryFee = 20.00
	// TaxRate applies to the subtotal only, not the delivery fee.
	TaxRate = 0.10
)

type Quote struct {
	Subtotal float64
	Delivery float64
	Tax      float64
	Total    float64
}

// PriceOrder computes the authoritative totals for a set of line
// items. Totals are always derived from these snapshots, never taken
// from the caller.
func PriceOrder(items []domain.OrderItem) Quote {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * TaxRate)

	return Quote{
		Subtotal: subtotal,
		Delivery: DeliveryFee,
		Tax:      tax,
		Total:    round2(subtotal + DeliveryFee + tax),
	}
}

// round2 rounds half-up to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
