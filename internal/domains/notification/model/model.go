package model

import (
	"encoding/json"
	"fmt"
	"studio/shared/model"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID        = "id"
	FieldType      = "type"
	FieldTitle     = "title"
	FieldMessage   = "message"
	FieldData      = "data"
	FieldRead      = "read"
	FieldCreatedAt = "created_at"

	LatestLimit = 50
)

const (
	TypeNewUser    = "new_user"
	TypeNewBooking = "new_booking"
)

type Notification struct {
	ID      string         `db:"id"`
	Type    string         `db:"type"`
	Title   string         `db:"title"`
	Message string         `db:"message"`
	Data    types.JSONText `db:"data"`
	Read    bool           `db:"read"`
	model.Metadata
}

// NewUser describes the account a new_user notification announces.
type NewUser struct {
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// NewBooking describes the booking a new_booking notification announces.
type NewBooking struct {
	BookingID        string `json:"booking_id"`
	BookingReference string `json:"booking_reference"`
	CustomerName     string `json:"customer_name"`
	ServiceName      string `json:"service_name"`
	BookingDate      string `json:"booking_date"`
	BookingTime      string `json:"booking_time"`
	Total            string `json:"total"`
}

func NewUserRegistered(data NewUser, actor string, now time.Time) (Notification, error) {
	return build(TypeNewUser,
		"New User Registered",
		fmt.Sprintf("%s (%s) just created an account.", data.UserName, data.UserEmail),
		data, actor, now)
}

func NewBookingReceived(data NewBooking, actor string, now time.Time) (Notification, error) {
	return build(TypeNewBooking,
		"New Booking Received",
		fmt.Sprintf("%s booked %s on %s at %s.", data.CustomerName, data.ServiceName, data.BookingDate, data.BookingTime),
		data, actor, now)
}

func build(kind, title, message string, data any, actor string, now time.Time) (Notification, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return Notification{}, fmt.Errorf("failed to encode notification data: %w", err)
	}

	return Notification{
		ID:       uuid.NewString(),
		Type:     kind,
		Title:    title,
		Message:  message,
		Data:     types.JSONText(encoded),
		Read:     false,
		Metadata: model.NewMetadata(actor, now),
	}, nil
}
