package payment_test

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
	paymentMocks "studio/internal/domains/payment/mocks"
	"studio/internal/domains/payment/model/dto"
	"studio/internal/handlers/payment"
)

const paymentID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func TestHandler_PaymentID(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		mock     func(svc *paymentMocks.MockPaymentService)
		wantCode int
	}{
		{
			name:     "get with malformed id",
			method:   http.MethodGet,
			path:     "/payments/abc",
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "update with malformed id",
			method:   http.MethodPut,
			path:     "/payments/abc",
			body:     `{"status":"paid"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "update with uuid",
			method: http.MethodPut,
			path:   "/payments/" + paymentID,
			body:   `{"status":"paid"}`,
			mock: func(svc *paymentMocks.MockPaymentService) {
				svc.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), paymentID, dto.UpdatePaymentRequest{Status: "paid"}).
					Return(dto.PaymentResponse{ID: paymentID, Status: "paid"}, nil)
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := paymentMocks.NewMockPaymentService(gomock.NewController(t))
			if tt.mock != nil {
				tt.mock(svc)
			}

			handler := payment.New(svc, mocks.NewOtel())
			router := chi.NewRouter()
			handler.AdminRouter(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			require.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusUnprocessableEntity {
				assert.Contains(t, rec.Body.String(), "id must be a valid UUID")
			}
		})
	}
}
