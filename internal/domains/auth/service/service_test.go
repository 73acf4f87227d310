package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"studio/config"
	"studio/infras/jwt"
	jwtMocks "studio/infras/jwt/mocks"
	kafkaMocks "studio/infras/kafka/mocks"
	"studio/infras/otel/mocks"
	"studio/internal/domains/auth/model/dto"
	"studio/internal/domains/auth/service"
	notificationMocks "studio/internal/domains/notification/mocks"
	notificationModel "studio/internal/domains/notification/model"
	userMocks "studio/internal/domains/user/mocks"
	userModel "studio/internal/domains/user/model"
	"studio/shared/constant"
	"studio/shared/failure"
	"studio/shared/principal"
	gRepo "studio/shared/repository"
	repoMocks "studio/shared/repository/mocks"
)

// bcrypt hash of "password"
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

type fixture struct {
	svc           service.Auth
	users         *userMocks.MockUser
	notifications *notificationMocks.MockNotification
	transactor    *repoMocks.MockTransactor
	publisher     *kafkaMocks.MockPublisher
	jwt           *jwtMocks.MockJWT
	denylist      *jwtMocks.MockDenylist
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		users:         userMocks.NewMockUser(ctrl),
		notifications: notificationMocks.NewMockNotification(ctrl),
		transactor:    repoMocks.NewMockTransactor(ctrl),
		publisher:     kafkaMocks.NewMockPublisher(ctrl),
		jwt:           jwtMocks.NewMockJWT(ctrl),
		denylist:      jwtMocks.NewMockDenylist(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Name = "studio"
	cfg.Kafka.Topic = "studio.notifications"

	f.svc = service.New(f.users, f.notifications, f.transactor, f.publisher, f.jwt, f.denylist, cfg, mocks.NewOtel())

	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func runInTx(f fixture) {
	f.transactor.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn gRepo.TxFunc) error {
			return fn(ctx, (*sqlx.Tx)(nil))
		})
}

var tokenPair = &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{
		Name:                 "Jane Doe",
		Email:                "jane@studio.test",
		Password:             "password123",
		PasswordConfirmation: "password123",
	}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "email already registered",
			setupMock: func(f fixture) {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "user and notification are written together",
			setupMock: func(f fixture) {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				runInTx(f)
				f.users.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, user userModel.User) error {
						assert.Equal(t, constant.RoleCustomer, user.Role)
						assert.NotEqual(t, req.Password, user.Password)

						return nil
					})
				f.notifications.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, n notificationModel.Notification) error {
						assert.Equal(t, notificationModel.TypeNewUser, n.Type)
						assert.Equal(t, "New User Registered", n.Title)
						assert.Equal(t, "Jane Doe (jane@studio.test) just created an account.", n.Message)

						return nil
					})
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), req.Email, constant.RoleCustomer).Return(tokenPair, nil)
			},
		},
		{
			name: "notification failure rolls back registration",
			setupMock: func(f fixture) {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				runInTx(f)
				f.users.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.notifications.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "concurrent registration hits the unique index",
			setupMock: func(f fixture) {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				runInTx(f)
				f.users.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: userModel.ConstraintEmailKey})
			},
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Register(context.Background(), req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, req.Email, res.User.Email)
			assert.Equal(t, "access", res.Token.AccessToken)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	user := userModel.User{ID: "user-1", Name: "Jane", Email: "jane@studio.test", Password: passwordHash, Role: constant.RoleCustomer}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@studio.test", Password: "password"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: user.Email, Password: "wrong-password"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "successful login records last login",
			req:  dto.LoginRequest{Email: user.Email, Password: "password"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), user.ID, user.Email, user.Role).Return(tokenPair, nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Contains(t, fields, userModel.FieldLastLogin)

						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
				assert.Equal(t, "The provided credentials are incorrect.", err.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, res.User.ID)
			assert.NotNil(t, res.User.LastLogin)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	claims := &jwt.Claims{UserID: "user-1", TokenID: "refresh-1", Type: jwt.RefreshToken}

	t.Run("revoked refresh token is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(claims, nil)
		f.denylist.EXPECT().IsRevoked(gomock.Any(), "refresh-1").Return(true, nil)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("rotates the refresh token", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(claims, nil)
		f.denylist.EXPECT().IsRevoked(gomock.Any(), "refresh-1").Return(false, nil)
		f.jwt.EXPECT().RefreshTokens(gomock.Any(), "refresh").Return(tokenPair, nil)
		f.denylist.EXPECT().Revoke(gomock.Any(), claims).Return(nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		require.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().ValidateToken(gomock.Any(), "bogus", jwt.RefreshToken).Return(nil, jwt.ErrInvalidToken)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "bogus"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_Logout(t *testing.T) {
	access := &jwt.Claims{UserID: "user-1", TokenID: "access-1", Type: jwt.AccessToken}
	refresh := &jwt.Claims{UserID: "user-1", TokenID: "refresh-1", Type: jwt.RefreshToken}

	t.Run("revokes access token", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().ValidateToken(gomock.Any(), "access", jwt.AccessToken).Return(access, nil)
		f.denylist.EXPECT().Revoke(gomock.Any(), access).Return(nil)

		assert.NoError(t, f.svc.Logout(context.Background(), "access", dto.LogoutRequest{}))
	})

	t.Run("revokes refresh token too", func(t *testing.T) {
		f := newFixture(t)
		f.jwt.EXPECT().ValidateToken(gomock.Any(), "access", jwt.AccessToken).Return(access, nil)
		f.jwt.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(refresh, nil)
		f.denylist.EXPECT().Revoke(gomock.Any(), access).Return(nil)
		f.denylist.EXPECT().Revoke(gomock.Any(), refresh).Return(nil)

		assert.NoError(t, f.svc.Logout(context.Background(), "access", dto.LogoutRequest{RefreshToken: "refresh"}))
	})

	t.Run("refresh token of another user", func(t *testing.T) {
		f := newFixture(t)
		other := &jwt.Claims{UserID: "user-2", TokenID: "refresh-2", Type: jwt.RefreshToken}

		f.jwt.EXPECT().ValidateToken(gomock.Any(), "access", jwt.AccessToken).Return(access, nil)
		f.jwt.EXPECT().ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).Return(other, nil)
		f.denylist.EXPECT().Revoke(gomock.Any(), access).Return(nil)

		err := f.svc.Logout(context.Background(), "access", dto.LogoutRequest{RefreshToken: "refresh"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	actor := principal.Principal{UserID: "user-1", Role: constant.RoleCustomer}
	user := userModel.User{ID: "user-1", Password: passwordHash}

	tests := []struct {
		name      string
		actor     principal.Principal
		req       dto.ChangePasswordRequest
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name:      "anonymous",
			actor:     principal.Principal{},
			setupMock: func(_ fixture) {},
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:  "wrong current password",
			actor: actor,
			req:   dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-password"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:  "password changed",
			actor: actor,
			req:   dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "new-password"},
			setupMock: func(f fixture) {
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.ChangePassword(context.Background(), tt.actor, tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
