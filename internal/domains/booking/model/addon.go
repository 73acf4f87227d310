package model

import (
	"studio/shared/model"

	"github.com/shopspring/decimal"
)

const (
	AddonTableName  = "booking_addons"
	AddonEntityName = "booking_addon"

	FieldAddonBookingID = "booking_id"
)

// Addon is an extra line item sold with a booking.
type Addon struct {
	ID          string          `db:"id"`
	BookingID   string          `db:"booking_id"`
	Name        string          `db:"name"`
	Description *string         `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Quantity    int             `db:"quantity"`
	model.Metadata
}

func (a Addon) LineTotal() decimal.Decimal {
	return a.Price.Mul(decimal.NewFromInt(int64(a.Quantity)))
}
