package dto

import (
	"studio/internal/domains/user/model"
	"studio/shared"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	gModel "studio/shared/model"
	"studio/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateAdminRequest struct {
	Name     string  `json:"name"     validate:"required,max=255"`
	Email    string  `json:"email"    validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8"`
	Phone    *string `json:"phone"    validate:"omitempty,max=20"`
}

func (r *CreateAdminRequest) ToModel(actor string, hashedPassword string) model.User {
	return model.User{
		ID:       uuid.NewString(),
		Name:     r.Name,
		Email:    r.Email,
		Password: hashedPassword,
		Phone:    r.Phone,
		Role:     constant.RoleAdmin,
		Metadata: gModel.NewMetadata(actor, timezone.Now()),
	}
}

// UpdateUserRequest is the admin edit of any account.
type UpdateUserRequest struct {
	Name  string  `db:"name"  json:"name"  validate:"omitempty,max=255"`
	Email string  `db:"email" json:"email" validate:"omitempty,email,max=255"`
	Phone *string `db:"phone" json:"phone" validate:"omitempty,max=20"`
	Role  string  `db:"role"  json:"role"  validate:"omitempty,oneof=customer admin"`
}

// UpdateProfileRequest is the self edit available to every signed in user.
type UpdateProfileRequest struct {
	Name    string  `db:"name"    json:"name"    validate:"omitempty,max=255"`
	Phone   *string `db:"phone"   json:"phone"   validate:"omitempty,max=20"`
	Address *string `db:"address" json:"address" validate:"omitempty,max=500"`
}

type UserResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Phone         *string             `json:"phone"`
	Role          string              `json:"role"`
	Address       *string             `json:"address"`
	Latitude      decimal.NullDecimal `json:"latitude"                 swaggertype:"number"`
	Longitude     decimal.NullDecimal `json:"longitude"                swaggertype:"number"`
	LastLogin     *string             `json:"last_login,omitempty"`
	BookingsCount *int                `json:"bookings_count,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Phone = model.Phone
	r.Role = model.Role
	r.Address = model.Address
	r.Latitude = model.Latitude
	r.Longitude = model.Longitude
	r.LastLogin = nil

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(model.Metadata)
}

// WithBookingsCount attaches the tally computed for the admin listing.
func (r *UserResponse) WithBookingsCount(count int) {
	r.BookingsCount = &count
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, counts map[string]int, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
		r.Users[i].WithBookingsCount(counts[mod.ID])
	}
}
