package model

import (
	"studio/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldPhone     = "phone"
	FieldRole      = "role"
	FieldAddress   = "address"
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldLastLogin = "last_login"

	ConstraintEmailKey = "users_email_key"
)

type User struct {
	ID        string              `db:"id"`
	Name      string              `db:"name"`
	Email     string              `db:"email"`
	Password  string              `db:"password"`
	Phone     *string             `db:"phone"`
	Role      string              `db:"role"`
	Address   *string             `db:"address"`
	Latitude  decimal.NullDecimal `db:"latitude"`
	Longitude decimal.NullDecimal `db:"longitude"`
	LastLogin *time.Time          `db:"last_login"`
	model.Metadata
}

// BookingCount is one row of the per user booking tally.
type BookingCount struct {
	UserID string `db:"user_id"`
	Total  int    `db:"total"`
}
