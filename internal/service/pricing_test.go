package service

import (
	"testing"

	"order-pipeline/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(cantidad int, price string) models.EnrichedItem {
	return models.EnrichedItem{
		SKU:       "P001",
		Cantidad:  cantidad,
		Title:     "test product",
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestComputePricingNoDiscount(t *testing.T) {
	// 3 x 10.00 + 5 x 20.00 = 130.00, under the discount threshold
	pricing := ComputePricing([]models.EnrichedItem{
		item(3, "10.00"),
		item(5, "20.00"),
	})

	assert.Equal(t, "130.00", pricing.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", pricing.Descuento.StringFixed(2))
	assert.Equal(t, "130.00", pricing.TotalFinal.StringFixed(2))
}

func TestComputePricingWithDiscount(t *testing.T) {
	// subtotal 600.00 > 500 triggers the 10% discount
	pricing := ComputePricing([]models.EnrichedItem{
		item(1, "600.00"),
	})

	assert.Equal(t, "600.00", pricing.Subtotal.StringFixed(2))
	assert.Equal(t, "60.00", pricing.Descuento.StringFixed(2))
	assert.Equal(t, "540.00", pricing.TotalFinal.StringFixed(2))
}

func TestComputePricingThresholdIsExclusive(t *testing.T) {
	// exactly 500 gets no discount
	pricing := ComputePricing([]models.EnrichedItem{
		item(1, "500.00"),
	})

	assert.True(t, pricing.Descuento.IsZero())
	assert.Equal(t, "500.00", pricing.TotalFinal.StringFixed(2))
}

func TestComputePricingInvariant(t *testing.T) {
	items := []models.EnrichedItem{
		item(7, "123.45"),
		item(2, "0.99"),
		item(13, "42.42"),
	}

	pricing := ComputePricing(items)

	assert.True(t, pricing.TotalFinal.Equal(pricing.Subtotal.Sub(pricing.Descuento)),
		"total_final must equal subtotal - discount exactly")
	if pricing.Subtotal.GreaterThan(decimal.NewFromInt(500)) {
		expected := pricing.Subtotal.Mul(decimal.RequireFromString("0.10")).Round(2)
		assert.True(t, pricing.Descuento.Equal(expected))
	}
}

func TestComputePricingExactDecimal(t *testing.T) {
	// 0.1 + 0.2 style drift must not appear
	pricing := ComputePricing([]models.EnrichedItem{
		item(1, "0.10"),
		item(1, "0.20"),
	})

	assert.Equal(t, "0.30", pricing.Subtotal.StringFixed(2))
}
