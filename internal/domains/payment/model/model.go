package model

import (
	"fmt"
	"slices"
	"time"

	"studio/shared/constant"
	"studio/shared/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID            = "id"
	FieldBookingID     = "booking_id"
	FieldTransactionID = "transaction_id"
	FieldAmount        = "amount"
	FieldMethod        = "method"
	FieldStatus        = "status"
	FieldNotes         = "notes"
	FieldCreatedAt     = "created_at"

	BookingsTable     = "bookings"
	FieldBookingOwner = "user_id"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusFailed, StatusRefunded},
	StatusFailed:  {StatusPending, StatusPaid},
	StatusPaid:    {StatusRefunded},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a payment may move from s to to. Staying put is not a transition.
func (s Status) CanTransition(to Status) bool {
	return slices.Contains(transitions[s], to)
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// InitialStatus is paid for online payments, which are settled at checkout, and pending otherwise.
func InitialStatus(method string) Status {
	if method == constant.PaymentMethodOnline {
		return StatusPaid
	}

	return StatusPending
}

// Payment is the one-to-one settlement record of a booking. BookingOwner is read through the
// booking join so listings can be scoped to a customer.
type Payment struct {
	ID            string          `db:"id"`
	BookingID     string          `db:"booking_id"`
	TransactionID string          `db:"transaction_id"`
	Amount        decimal.Decimal `db:"amount"`
	Method        string          `db:"method"`
	Status        Status          `db:"status"`
	Notes         *string         `db:"notes"`
	BookingOwner  string          `column:"user_id" db:"booking_owner" table:"bookings"`
	model.Metadata
}

func (Payment) GetJoinQuery() string {
	return fmt.Sprintf("INNER JOIN %s ON %s.id = %s.%s", BookingsTable, BookingsTable, TableName, FieldBookingID)
}

func New(bookingID, transactionID string, amount decimal.Decimal, method, actor string, now time.Time) Payment {
	return Payment{
		ID:            uuid.NewString(),
		BookingID:     bookingID,
		TransactionID: transactionID,
		Amount:        amount,
		Method:        method,
		Status:        InitialStatus(method),
		Metadata:      model.NewMetadata(actor, now),
	}
}
