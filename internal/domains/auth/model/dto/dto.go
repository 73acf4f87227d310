package dto

import (
	"studio/infras/jwt"
	userModel "studio/internal/domains/user/model"
	userDto "studio/internal/domains/user/model/dto"
	"studio/shared/constant"
	gModel "studio/shared/model"
	"studio/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Name                 string              `json:"name"                  validate:"required,max=255"`
	Email                string              `json:"email"                 validate:"required,email,max=255"`
	Password             string              `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string              `json:"password_confirmation" validate:"required,eqfield=Password"`
	Phone                *string             `json:"phone"                 validate:"omitempty,max=20"`
	Address              *string             `json:"address"               validate:"omitempty,max=500"`
	Latitude             decimal.NullDecimal `json:"latitude"              swaggertype:"number"`
	Longitude            decimal.NullDecimal `json:"longitude"             swaggertype:"number"`
}

func (r *RegisterRequest) ToUserModel(actor string, hashedPassword string) userModel.User {
	return userModel.User{
		ID:        uuid.NewString(),
		Name:      r.Name,
		Email:     r.Email,
		Password:  hashedPassword,
		Phone:     r.Phone,
		Role:      constant.RoleCustomer,
		Address:   r.Address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Metadata:  gModel.NewMetadata(actor, timezone.Now()),
	}
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest optionally carries the refresh token so it is revoked alongside the access token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password"          validate:"required"`
	NewPassword             string `json:"new_password"              validate:"required,min=8,nefield=CurrentPassword"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required,min=8"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *TokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	t.AccessToken = tokenPair.AccessToken
	t.RefreshToken = tokenPair.RefreshToken
	t.TokenType = tokenPair.TokenType
	t.ExpiresIn = tokenPair.ExpiresIn
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  userDto.UserResponse `json:"user"`
	Token TokenResponse        `json:"token"`
}

func (a *AuthResponse) FromModel(user userModel.User, tokenPair *jwt.TokenPair) {
	a.User.FromModel(user)
	a.Token.FromTokenPair(tokenPair)
}
