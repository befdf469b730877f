package service

import (
	"order-pipeline/internal/models"

	"github.com/shopspring/decimal"
)

// Discount rule: 10% off when the subtotal exceeds 500.
var (
	discountThreshold = decimal.NewFromInt(500)
	discountRate      = decimal.RequireFromString("0.10")
)

// Pricing holds the computed totals for an order, rounded to 2 fraction
// digits. TotalFinal is always exactly Subtotal - Descuento.
type Pricing struct {
	Subtotal   decimal.Decimal
	Descuento  decimal.Decimal
	TotalFinal decimal.Decimal
}

// ComputePricing computes subtotal, discount and final total over enriched
// items using exact decimal arithmetic. The discount is derived from the
// already-rounded subtotal so the invariant holds after rounding.
func ComputePricing(items []models.EnrichedItem) Pricing {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Cantidad))))
	}
	subtotal = subtotal.Round(2)

	descuento := decimal.Zero.Round(2)
	if subtotal.GreaterThan(discountThreshold) {
		descuento = subtotal.Mul(discountRate).Round(2)
	}

	return Pricing{
		Subtotal:   subtotal,
		Descuento:  descuento,
		TotalFinal: subtotal.Sub(descuento),
	}
}
