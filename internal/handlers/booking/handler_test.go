package booking_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"studio/infras/otel/mocks"
	bookingMocks "studio/internal/domains/booking/mocks"
	"studio/internal/domains/booking/model/dto"
	"studio/internal/handlers/booking"
)

const bookingID = "550e8400-e29b-41d4-a716-446655440000"

func newRouter(t *testing.T) (http.Handler, *bookingMocks.MockBookingService) {
	t.Helper()

	svc := bookingMocks.NewMockBookingService(gomock.NewController(t))
	handler := booking.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func TestHandler_BookingIDMustBeUUID(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "get", method: http.MethodGet, path: "/bookings/42"},
		{name: "update", method: http.MethodPut, path: "/bookings/not-a-uuid", body: `{"status":"cancelled"}`},
		{name: "delete", method: http.MethodDelete, path: "/bookings/1%27%20OR%201=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.JSONEq(t, `{"error":"id must be a valid UUID"}`, rec.Body.String())
		})
	}
}

func TestHandler_GetBookingByID(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Get(gomock.Any(), gomock.Any(), bookingID).Return(dto.BookingResponse{ID: bookingID, Status: "pending"}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/"+bookingID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), bookingID)
}
