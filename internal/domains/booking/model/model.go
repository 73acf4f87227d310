package model

import (
	"slices"
	"time"

	"studio/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldBookingReference = "booking_reference"
	FieldUserID           = "user_id"
	FieldServiceID        = "service_id"
	FieldBookingDate      = "booking_date"
	FieldBookingTime      = "booking_time"
	FieldSpecialRequests  = "special_requests"
	FieldStatus           = "status"
	FieldTotal            = "total"
	FieldCreatedAt        = "created_at"

	ConstraintActiveSlot = "bookings_active_slot_uidx"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether the edge s -> to exists. Both the booking edit and the
// payment settlement paths go through it.
func (s Status) CanTransition(to Status) bool {
	return slices.Contains(transitions[s], to)
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// IsEditable reports whether date, time and special requests may still change.
func (s Status) IsEditable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Slots is the studio's bookable day, in display order.
var Slots = []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"}

func IsSlot(label string) bool {
	return slices.Contains(Slots, label)
}

// AvailableSlots removes booked labels from Slots, keeping Slots order.
func AvailableSlots(booked []string) []string {
	available := make([]string, 0, len(Slots))

	for _, slot := range Slots {
		if !slices.Contains(booked, slot) {
			available = append(available, slot)
		}
	}

	return available
}

type Booking struct {
	ID               string              `db:"id"`
	BookingReference string              `db:"booking_reference"`
	UserID           string              `db:"user_id"`
	ServiceID        string              `db:"service_id"`
	BookingDate      time.Time           `db:"booking_date"`
	BookingTime      string              `db:"booking_time"`
	CustomerName     string              `db:"customer_name"`
	CustomerEmail    string              `db:"customer_email"`
	CustomerPhone    string              `db:"customer_phone"`
	LocationAddress  *string             `db:"location_address"`
	LocationLat      decimal.NullDecimal `db:"location_lat"`
	LocationLng      decimal.NullDecimal `db:"location_lng"`
	SpecialRequests  *string             `db:"special_requests"`
	Subtotal         decimal.Decimal     `db:"subtotal"`
	Tax              decimal.Decimal     `db:"tax"`
	Discount         decimal.Decimal     `db:"discount"`
	Total            decimal.Decimal     `db:"total"`
	Status           Status              `db:"status"`
	PaymentMethod    string              `db:"payment_method"`
	model.Metadata
}

// ApplyQuote copies the priced amounts onto the booking.
func (b *Booking) ApplyQuote(q Quote) {
	b.Subtotal = q.Subtotal
	b.Tax = q.Tax
	b.Discount = q.Discount
	b.Total = q.Total
}

// SlotKey identifies one bookable slot of one service.
type SlotKey struct {
	ServiceID string
	Date      string
	Time      string
}

func (k SlotKey) String() string {
	return "booking-slot:" + k.ServiceID + ":" + k.Date + ":" + k.Time
}

// Slot returns the key of the slot the booking occupies.
func (b Booking) Slot() SlotKey {
	return SlotKey{ServiceID: b.ServiceID, Date: b.BookingDate.Format(time.DateOnly), Time: b.BookingTime}
}
