package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio/infras/jwt"
	"studio/internal/domains/auth/model/dto"
	userModel "studio/internal/domains/user/model"
	"studio/shared/constant"
	"studio/shared/validator"
)

func TestRegisterRequest_ToUserModel(t *testing.T) {
	phone := "08123456789"
	req := dto.RegisterRequest{
		Name:     "Jane Doe",
		Email:    "jane@studio.test",
		Password: "password123",
		Phone:    &phone,
	}

	user := req.ToUserModel(constant.ContextGuest, "hashed")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, constant.RoleCustomer, user.Role)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, &phone, user.Phone)
	assert.False(t, user.Latitude.Valid)
	assert.Equal(t, constant.ContextGuest, user.CreatedBy)
}

func TestRegisterRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.RegisterRequest
		wantMsg string
	}{
		{
			name: "valid",
			req: dto.RegisterRequest{
				Name: "Jane", Email: "jane@studio.test", Password: "password123", PasswordConfirmation: "password123",
			},
		},
		{
			name: "confirmation mismatch",
			req: dto.RegisterRequest{
				Name: "Jane", Email: "jane@studio.test", Password: "password123", PasswordConfirmation: "password124",
			},
			wantMsg: "password_confirmation must match Password",
		},
		{
			name: "short password",
			req: dto.RegisterRequest{
				Name: "Jane", Email: "jane@studio.test", Password: "short", PasswordConfirmation: "short",
			},
			wantMsg: "password must be greater than or equal to 8",
		},
		{
			name: "bad email",
			req: dto.RegisterRequest{
				Name: "Jane", Email: "jane", Password: "password123", PasswordConfirmation: "password123",
			},
			wantMsg: "email must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestAuthResponse_FromModel(t *testing.T) {
	pair := &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}
	user := userModel.User{ID: "user-1", Name: "Jane", Email: "jane@studio.test", Password: "secret", Role: constant.RoleCustomer}

	var res dto.AuthResponse
	res.FromModel(user, pair)

	assert.Equal(t, "user-1", res.User.ID)
	assert.Equal(t, "access", res.Token.AccessToken)
	assert.Equal(t, "refresh", res.Token.RefreshToken)
	assert.Equal(t, "Bearer", res.Token.TokenType)
	assert.Equal(t, int64(900), res.Token.ExpiresIn)
}
