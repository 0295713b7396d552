// internal/domain/order/service_test.go
package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "ORD-2026-00001", FormatOrderNumber(2026, 1))
	assert.Equal(t, "ORD-2026-00042", FormatOrderNumber(2026, 42))
	assert.Equal(t, "ORD-2026-12345", FormatOrderNumber(2026, 12345))
	// Sequences past the pad width keep all digits.
	assert.Equal(t, "ORD-2026-123456", FormatOrderNumber(2026, 123456))
}

func TestShippingCost(t *testing.T) {
	const threshold = 50000
	const fee = 2500

	assert.Equal(t, int64(fee), ShippingCost(0, threshold, fee))
	assert.Equal(t, int64(fee), ShippingCost(49999, threshold, fee))
	assert.Equal(t, int64(0), ShippingCost(50000, threshold, fee))
	assert.Equal(t, int64(0), ShippingCost(120000, threshold, fee))
}

func TestTaxAmount(t *testing.T) {
	assert.Equal(t, int64(0), TaxAmount(25000, 0))
	assert.Equal(t, int64(2000), TaxAmount(25000, 0.08))
	// Half-up rounding: 333 * 0.075 = 24.975 -> 25
	assert.Equal(t, int64(25), TaxAmount(333, 0.075))
	assert.Equal(t, int64(0), TaxAmount(0, 0.08))
}

func TestOrderTotals_Scenario(t *testing.T) {
	// One item at 100 cents x2 plus one at 50 cents x1: subtotal 250,
	// shipping 25 under a 500 threshold, tax 0, total 275.
	subtotal := int64(100*2 + 50*1)
	shipping := ShippingCost(subtotal, 500, 25)
	tax := TaxAmount(subtotal, 0)

	assert.Equal(t, int64(250), subtotal)
	assert.Equal(t, int64(25), shipping)
	assert.Equal(t, int64(0), tax)
	assert.Equal(t, int64(275), subtotal+shipping+tax)
}

func TestFormatDisplay_StableOrdering(t *testing.T) {
	display := map[string]string{
		"size":     "3-seater",
		"material": "Walnut",
		"color":    "Ebony Stain",
	}
	assert.Equal(t, "color: Ebony Stain, material: Walnut, size: 3-seater", formatDisplay(display))
	assert.Equal(t, "", formatDisplay(nil))
}

func TestOrderItemDisplayMap(t *testing.T) {
	oi := OrderItem{ConfigurationDisplay: "color: Ebony Stain, material: Walnut"}
	display := oi.DisplayMap()

	assert.Equal(t, "Ebony Stain", display["color"])
	assert.Equal(t, "Walnut", display["material"])
	assert.Empty(t, OrderItem{}.DisplayMap())
}

func TestOrderItemConfigurationJSON(t *testing.T) {
	oi := OrderItem{Configuration: `{"materialId":"11","sizeId":"41"}`}
	cfg := oi.ConfigurationJSON()

	assert.Equal(t, "11", cfg["materialId"])
	assert.Equal(t, "41", cfg["sizeId"])
	assert.Empty(t, OrderItem{Configuration: "not-json"}.ConfigurationJSON())
}
