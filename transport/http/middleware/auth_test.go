package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"studio/config"
	"studio/infras/jwt"
	jwtMocks "studio/infras/jwt/mocks"
	otelMocks "studio/infras/otel/mocks"
	"studio/permissions"
	"studio/shared/constant"
	"studio/shared/principal"
	"studio/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newProtectedRouter(authRole middleware.AuthRole) *chi.Mux {
	ok := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Principal", principal.FromRequest(r).UserID)
		w.WriteHeader(http.StatusOK)
	}

	mux := chi.NewRouter()
	mux.Route("/v1", func(r chi.Router) {
		r.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", ok)
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/{id}", ok)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", ok)
		})
	})

	return mux
}

func TestAuthRole(t *testing.T) {
	customer := &jwt.Claims{UserID: "u-1", Email: "c@studio.test", Role: constant.RoleCustomer, TokenID: "t-1", Type: jwt.AccessToken}
	admin := &jwt.Claims{UserID: "a-1", Email: "a@studio.test", Role: constant.RoleAdmin, TokenID: "t-2", Type: jwt.AccessToken}

	tests := []struct {
		name       string
		path       string
		header     string
		apiKey     string
		setup      func(jwtService *jwtMocks.MockJWT, denylist *jwtMocks.MockDenylist)
		wantStatus int
		wantUserID string
	}{
		{
			name:       "public route needs no token",
			path:       "/v1/categories/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token is rejected",
			path:       "/v1/bookings/b-1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header is rejected",
			path:       "/v1/bookings/b-1",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired token is rejected",
			path:   "/v1/bookings/b-1",
			header: "Bearer expired",
			setup: func(jwtService *jwtMocks.MockJWT, _ *jwtMocks.MockDenylist) {
				jwtService.EXPECT().ValidateToken(gomock.Any(), "expired", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "revoked token is rejected",
			path:   "/v1/bookings/b-1",
			header: "Bearer revoked",
			setup: func(jwtService *jwtMocks.MockJWT, denylist *jwtMocks.MockDenylist) {
				jwtService.EXPECT().ValidateToken(gomock.Any(), "revoked", jwt.AccessToken).Return(customer, nil)
				denylist.EXPECT().IsRevoked(gomock.Any(), customer.TokenID).Return(true, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "customer reaches own route",
			path:   "/v1/bookings/b-1",
			header: "Bearer customer",
			setup: func(jwtService *jwtMocks.MockJWT, denylist *jwtMocks.MockDenylist) {
				jwtService.EXPECT().ValidateToken(gomock.Any(), "customer", jwt.AccessToken).Return(customer, nil)
				denylist.EXPECT().IsRevoked(gomock.Any(), customer.TokenID).Return(false, nil)
			},
			wantStatus: http.StatusOK,
			wantUserID: customer.UserID,
		},
		{
			name:   "customer is forbidden from admin route",
			path:   "/v1/admin/dashboard",
			header: "Bearer customer",
			setup: func(jwtService *jwtMocks.MockJWT, denylist *jwtMocks.MockDenylist) {
				jwtService.EXPECT().ValidateToken(gomock.Any(), "customer", jwt.AccessToken).Return(customer, nil)
				denylist.EXPECT().IsRevoked(gomock.Any(), customer.TokenID).Return(false, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "admin reaches admin route",
			path:   "/v1/admin/dashboard",
			header: "Bearer admin",
			setup: func(jwtService *jwtMocks.MockJWT, denylist *jwtMocks.MockDenylist) {
				jwtService.EXPECT().ValidateToken(gomock.Any(), "admin", jwt.AccessToken).Return(admin, nil)
				denylist.EXPECT().IsRevoked(gomock.Any(), admin.TokenID).Return(false, nil)
			},
			wantStatus: http.StatusOK,
			wantUserID: admin.UserID,
		},
		{
			name:       "wrong api key is forbidden",
			path:       "/v1/bookings/b-1",
			apiKey:     "nope",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "internal api key bypasses token checks",
			path:       "/v1/admin/dashboard",
			apiKey:     "internal-key",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jwtService := jwtMocks.NewMockJWT(ctrl)
			denylist := jwtMocks.NewMockDenylist(ctrl)

			if tt.setup != nil {
				tt.setup(jwtService, denylist)
			}

			cfg := &config.Config{}
			cfg.App.APIKey = "internal-key"

			authRole := middleware.NewAuthRoleMiddleware(jwtService, denylist, otelMocks.NewOtel(), permissions.Get(), cfg)
			mux := newProtectedRouter(authRole)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(constant.RequestHeaderAuthorization, tt.header)
			}

			if tt.apiKey != "" {
				req.Header.Set(constant.RequestHeaderAPIKey, tt.apiKey)
			}

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantUserID != "" {
				assert.Equal(t, tt.wantUserID, rec.Header().Get("X-Principal"))
			}
		})
	}
}
