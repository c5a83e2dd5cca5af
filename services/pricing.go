package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/deniortyann66-art/vite-et-gourmand/models"
)

// Pricing policy. Delivery is free inside Bordeaux; elsewhere a base fee
// plus a per-kilometre rate applies. Orders exceeding the menu baseline by
// five guests or more get a 10% volume discount.
var (
	discountRate   = decimal.New(10, -2) // 0.10
	deliveryBase   = decimal.New(500, -2)
	deliveryPerKm  = decimal.New(59, -2)
	moneyPrecision = int32(2)
)

const (
	freeDeliveryCity    = "bordeaux"
	discountExtraGuests = 5
)

// PriceBreakdown holds every derived monetary field of an order, each
// rounded to two decimal places.
type PriceBreakdown struct {
	MenuPrice     decimal.Decimal
	Discount      decimal.Decimal
	DeliveryPrice decimal.Decimal
	Total         decimal.Decimal
}

// ComputePrices derives the price breakdown for an order of peopleCount
// guests on the given menu. Pure: no I/O, no side effects. Negative km is
// clamped to zero.
func ComputePrices(menu *models.Menu, peopleCount int, serviceCity string, km decimal.Decimal) PriceBreakdown {
	// Per-person rate from the menu baseline. A menu without a guest
	// baseline charges its full price per person.
	rate := menu.MinPrice
	if menu.MinPeople > 0 {
		rate = menu.MinPrice.Div(decimal.NewFromInt(int64(menu.MinPeople)))
	}

	menuPrice := rate.Mul(decimal.NewFromInt(int64(peopleCount))).Round(moneyPrecision)

	discount := decimal.Zero
	if peopleCount >= menu.MinPeople+discountExtraGuests {
		discount = menuPrice.Mul(discountRate).Round(moneyPrecision)
	}

	delivery := decimal.Zero
	if strings.ToLower(strings.TrimSpace(serviceCity)) != freeDeliveryCity {
		if km.IsNegative() {
			km = decimal.Zero
		}
		delivery = deliveryBase.Add(deliveryPerKm.Mul(km)).Round(moneyPrecision)
	}

	total := menuPrice.Sub(discount).Add(delivery).Round(moneyPrecision)

	return PriceBreakdown{
		MenuPrice:     menuPrice,
		Discount:      discount,
		DeliveryPrice: delivery,
		Total:         total,
	}
}
