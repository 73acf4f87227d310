package model

import "github.com/shopspring/decimal"

const moneyPlaces = 2

// TaxRate is the flat VAT applied to every booking.
var TaxRate = decimal.RequireFromString("0.12")

type Quote struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// NewQuote prices a booking: the service price plus every addon line, taxed at TaxRate with
// the tax rounded half up to cents. No discount scheme exists, so Discount is always zero.
func NewQuote(servicePrice decimal.Decimal, addons []Addon) Quote {
	subtotal := servicePrice

	for _, addon := range addons {
		subtotal = subtotal.Add(addon.LineTotal())
	}

	tax := subtotal.Mul(TaxRate).Round(moneyPlaces)

	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: decimal.Zero,
		Total:    subtotal.Add(tax),
	}
}
