package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{Code: http.StatusBadRequest, Message: "slot already taken"}

	assert.Equal(t, "slot already taken", f.Error())
}

func TestConstructors(t *testing.T) {
	cause := errors.New("pq: connection refused")

	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("invalid date")), code: http.StatusBadRequest, message: "invalid date"},
		{name: "bad request from string", err: failure.BadRequestFromString("update request cannot be empty"), code: http.StatusBadRequest, message: "update request cannot be empty"},
		{name: "unauthorized", err: failure.Unauthorized("token expired"), code: http.StatusUnauthorized, message: "token expired"},
		{name: "internal", err: failure.InternalError(cause), code: http.StatusInternalServerError, message: "pq: connection refused"},
		{name: "not found", err: failure.NotFound("booking not found"), code: http.StatusNotFound, message: "booking not found"},
		{name: "conflict", err: failure.Conflict("slot already taken"), code: http.StatusUnprocessableEntity, message: "slot already taken"},
		{name: "unprocessable", err: failure.Unprocessable("invalid status transition"), code: http.StatusUnprocessableEntity, message: "invalid status transition"},
		{name: "forbidden", err: failure.Forbidden("only the owner may cancel"), code: http.StatusForbidden, message: "only the owner may cancel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure
			require.ErrorAs(t, tt.err, &f)
			assert.Equal(t, tt.code, f.Code)
			assert.Equal(t, tt.message, f.Message)
		})
	}
}

func TestConstructors_NilError(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestInternalError_KeepsCause(t *testing.T) {
	cause := errors.New("pq: connection refused")

	err := failure.InternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestFailure_Is(t *testing.T) {
	wrapped := fmt.Errorf("load booking: %w", &failure.Failure{
		Code:    http.StatusForbidden,
		Message: "You don't have permission to access this resource",
	})

	assert.ErrorIs(t, wrapped, failure.ResourceRestrictedError)
	assert.NotErrorIs(t, wrapped, failure.ForbiddenError)
	assert.NotErrorIs(t, failure.NotFound("x"), errors.New("x"))
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "failure", err: failure.NotFound("user not found"), want: http.StatusNotFound},
		{name: "wrapped failure", err: fmt.Errorf("service: %w", failure.Conflict("taken")), want: http.StatusUnprocessableEntity},
		{name: "predefined", err: failure.ForbiddenError, want: http.StatusForbidden},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.GetCode(tt.err))
		})
	}
}
