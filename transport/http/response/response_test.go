package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"studio/shared/constant"
	"studio/shared/failure"
	"studio/transport/http/response"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "not found", err: failure.NotFound("booking"), wantCode: http.StatusNotFound, wantMsg: failure.NotFound("booking").Error()},
		{name: "business conflict", err: failure.Conflict("slot already booked"), wantCode: http.StatusUnprocessableEntity, wantMsg: "slot already booked"},
		{name: "internal failure is masked", err: failure.InternalError(errors.New("pq: connection refused")), wantCode: http.StatusInternalServerError, wantMsg: constant.ResponseErrorInternal},
		{name: "plain error is masked", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantMsg: constant.ResponseErrorInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))
			assert.Equal(t, tt.wantMsg, decode(t, rec)["error"])
		})
	}
}

func TestWithCreated(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithCreated(rec, map[string]string{"booking_reference": "BK-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, map[string]any{"booking_reference": "BK-1"}, decode(t, rec)["data"])
}

func TestRoutingFallbacks(t *testing.T) {
	rec := httptest.NewRecorder()
	response.NotFound(rec, httptest.NewRequest(http.MethodGet, "/v1/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, constant.ResponseErrorRouteNotFound, decode(t, rec)["error"])

	rec = httptest.NewRecorder()
	response.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPatch, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, constant.ResponseErrorMethodNotAllowed, decode(t, rec)["error"])
}
