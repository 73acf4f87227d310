// Package principal carries the verified identity of the caller into the service layer.
// Handlers build it from the authenticated request and pass it explicitly, so every
// ownership and role decision is made against the same value.
package principal

import (
	"context"
	"net/http"

	"studio/shared/constant"
	"studio/shared/failure"
)

type Principal struct {
	UserID  string
	Email   string
	Role    string
	TokenID string
}

// FromContext reads the identity stored by the auth middleware. A request that was
// never authenticated yields a Principal with an empty UserID.
func FromContext(ctx context.Context) Principal {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	tokenID, _ := ctx.Value(constant.ContextKeyTokenID).(string)

	return Principal{
		UserID:  userID,
		Email:   email,
		Role:    role,
		TokenID: tokenID,
	}
}

func FromRequest(r *http.Request) Principal {
	return FromContext(r.Context())
}

// WithContext stores p the same way the auth middleware does.
func WithContext(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, p.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, p.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, p.Role)

	return context.WithValue(ctx, constant.ContextKeyTokenID, p.TokenID)
}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != constant.Empty
}

func (p Principal) IsAdmin() bool {
	return p.IsAuthenticated() && p.Role == constant.RoleAdmin
}

// Authenticated fails with 401 when no identity is present.
func (p Principal) Authenticated() error {
	if !p.IsAuthenticated() {
		return failure.Unauthorized("authentication required") //nolint:wrapcheck
	}

	return nil
}

// RequireAdmin fails with 401 for anonymous callers and 403 for non admins.
func (p Principal) RequireAdmin() error {
	if err := p.Authenticated(); err != nil {
		return err
	}

	if !p.IsAdmin() {
		return failure.ForbiddenError
	}

	return nil
}

// CanAccess reports whether the caller may act on a resource owned by ownerID.
func (p Principal) CanAccess(ownerID string) bool {
	if !p.IsAuthenticated() {
		return false
	}

	return p.IsAdmin() || p.UserID == ownerID
}

// RequireAccess is CanAccess as an error.
func (p Principal) RequireAccess(ownerID string) error {
	if err := p.Authenticated(); err != nil {
		return err
	}

	if !p.CanAccess(ownerID) {
		return failure.ResourceRestrictedError
	}

	return nil
}

// Actor is the value written to created_by and modified_by.
func (p Principal) Actor() string {
	if !p.IsAuthenticated() {
		return constant.ContextGuest
	}

	return p.UserID
}
