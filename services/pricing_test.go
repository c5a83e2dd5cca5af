package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/deniortyann66-art/vite-et-gourmand/models"
)

func menuForPricing(minPeople int, minPrice string) *models.Menu {
	return &models.Menu{
		Title:     "Menu test",
		MinPeople: minPeople,
		MinPrice:  decimal.RequireFromString(minPrice),
		Stock:     10,
	}
}

func TestComputePricesBordeauxAtBaseline(t *testing.T) {
	menu := menuForPricing(10, "200.00")

	p := ComputePrices(menu, 10, "Bordeaux", decimal.Zero)

	assert.Equal(t, "200.00", p.MenuPrice.StringFixed(2))
	assert.Equal(t, "0.00", p.Discount.StringFixed(2))
	assert.Equal(t, "0.00", p.DeliveryPrice.StringFixed(2))
	assert.Equal(t, "200.00", p.Total.StringFixed(2))
}

func TestComputePricesDiscountAndDelivery(t *testing.T) {
	menu := menuForPricing(10, "200.00")

	// 15 guests: 10% discount kicks in; Paris delivery at 10 km.
	p := ComputePrices(menu, 15, "Paris", decimal.RequireFromString("10"))

	assert.Equal(t, "300.00", p.MenuPrice.StringFixed(2))
	assert.Equal(t, "30.00", p.Discount.StringFixed(2))
	assert.Equal(t, "10.90", p.DeliveryPrice.StringFixed(2))
	assert.Equal(t, "280.90", p.Total.StringFixed(2))
}

func TestComputePricesDiscountThreshold(t *testing.T) {
	menu := menuForPricing(10, "200.00")

	// One guest short of the threshold: no discount.
	below := ComputePrices(menu, 14, "Bordeaux", decimal.Zero)
	assert.True(t, below.Discount.IsZero())

	// Exactly minPeople+5: discount applies.
	at := ComputePrices(menu, 15, "Bordeaux", decimal.Zero)
	assert.Equal(t, "30.00", at.Discount.StringFixed(2))
}

func TestComputePricesFreeDeliveryCaseInsensitive(t *testing.T) {
	menu := menuForPricing(10, "200.00")

	for _, city := range []string{"bordeaux", "Bordeaux", "BORDEAUX", "  bordeaux  "} {
		p := ComputePrices(menu, 10, city, decimal.RequireFromString("25"))
		assert.True(t, p.DeliveryPrice.IsZero(), "city %q should be free", city)
	}

	paid := ComputePrices(menu, 10, "Bordeaux-lès-Vignes", decimal.RequireFromString("25"))
	assert.False(t, paid.DeliveryPrice.IsZero())
}

func TestComputePricesZeroKmOutsideBordeaux(t *testing.T) {
	menu := menuForPricing(10, "200.00")

	// Base fee still applies at zero distance.
	p := ComputePrices(menu, 10, "Pessac", decimal.Zero)
	assert.Equal(t, "5.00", p.DeliveryPrice.StringFixed(2))

	// Negative distances are treated as zero.
	n := ComputePrices(menu, 10, "Pessac", decimal.RequireFromString("-3"))
	assert.Equal(t, "5.00", n.DeliveryPrice.StringFixed(2))
}

func TestComputePricesRoundsNonTerminatingRate(t *testing.T) {
	// 100 / 3 per person does not terminate; for exactly 3 guests the
	// menu price must come back to 100.00.
	menu := menuForPricing(3, "100.00")

	p := ComputePrices(menu, 3, "Bordeaux", decimal.Zero)
	assert.Equal(t, "100.00", p.MenuPrice.StringFixed(2))
	assert.Equal(t, "100.00", p.Total.StringFixed(2))
}

func TestComputePricesTwoDecimalPlaces(t *testing.T) {
	menu := menuForPricing(7, "99.95")

	p := ComputePrices(menu, 13, "Talence", decimal.RequireFromString("7.3"))

	for name, v := range map[string]decimal.Decimal{
		"menu_price": p.MenuPrice, "discount": p.Discount,
		"delivery_price": p.DeliveryPrice, "total": p.Total,
	} {
		assert.True(t, v.Exponent() >= -2, "%s has more than two decimals: %s", name, v)
	}
	assert.Equal(t, p.Total.StringFixed(2),
		p.MenuPrice.Sub(p.Discount).Add(p.DeliveryPrice).Round(2).StringFixed(2))
}
