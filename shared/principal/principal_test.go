package principal_test

import (
	"context"
	"net/http"
	"testing"

	"studio/shared/constant"
	"studio/shared/failure"
	"studio/shared/principal"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal_FromContext(t *testing.T) {
	want := principal.Principal{UserID: "u-1", Email: "ana@example.com", Role: constant.RoleCustomer, TokenID: "t-1"}

	got := principal.FromContext(principal.WithContext(context.Background(), want))

	assert.Equal(t, want, got)
	assert.False(t, principal.FromContext(context.Background()).IsAuthenticated())
}

func TestPrincipal_Access(t *testing.T) {
	admin := principal.Principal{UserID: "admin-1", Role: constant.RoleAdmin}
	owner := principal.Principal{UserID: "owner-1", Role: constant.RoleCustomer}
	stranger := principal.Principal{UserID: "other-1", Role: constant.RoleCustomer}
	anonymous := principal.Principal{}

	tests := []struct {
		name       string
		actor      principal.Principal
		canAccess  bool
		accessCode int
		adminCode  int
	}{
		{name: "admin", actor: admin, canAccess: true, accessCode: 0, adminCode: 0},
		{name: "owner", actor: owner, canAccess: true, accessCode: 0, adminCode: http.StatusForbidden},
		{name: "other customer", actor: stranger, canAccess: false, accessCode: http.StatusForbidden, adminCode: http.StatusForbidden},
		{name: "anonymous", actor: anonymous, canAccess: false, accessCode: http.StatusUnauthorized, adminCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canAccess, tt.actor.CanAccess("owner-1"))

			err := tt.actor.RequireAccess("owner-1")
			if tt.accessCode == 0 {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.accessCode, failure.GetCode(err))
			}

			err = tt.actor.RequireAdmin()
			if tt.adminCode == 0 {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.adminCode, failure.GetCode(err))
			}
		})
	}
}

func TestPrincipal_Actor(t *testing.T) {
	assert.Equal(t, constant.ContextGuest, principal.Principal{}.Actor())
	assert.Equal(t, "u-1", principal.Principal{UserID: "u-1"}.Actor())
}
