package service_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"studio/infras/otel/mocks"
	bookingMocks "studio/internal/domains/booking/mocks"
	bookingModel "studio/internal/domains/booking/model"
	offeringMocks "studio/internal/domains/offering/mocks"
	offeringModel "studio/internal/domains/offering/model"
	paymentMocks "studio/internal/domains/payment/mocks"
	"studio/internal/domains/payment/model"
	"studio/internal/domains/payment/model/dto"
	"studio/internal/domains/payment/service"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/failure"
	gModel "studio/shared/model"
	"studio/shared/principal"
	gRepo "studio/shared/repository"
	repoMocks "studio/shared/repository/mocks"
	"studio/shared/timezone"
)

var (
	admin    = principal.Principal{UserID: "admin-1", Role: constant.RoleAdmin}
	customer = principal.Principal{UserID: "user-1", Role: constant.RoleCustomer}
	stranger = principal.Principal{UserID: "user-2", Role: constant.RoleCustomer}
)

type fixture struct {
	svc         service.Payment
	repo        *paymentMocks.MockPayment
	bookingRepo *bookingMocks.MockBooking
	serviceRepo *offeringMocks.MockService
	transactor  *repoMocks.MockTransactor
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:        paymentMocks.NewMockPayment(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		serviceRepo: offeringMocks.NewMockService(ctrl),
		transactor:  repoMocks.NewMockTransactor(ctrl),
	}
	f.svc = service.New(f.repo, f.bookingRepo, f.serviceRepo, f.transactor, mocks.NewOtel())

	return f
}

func (f fixture) expectTransaction() {
	f.transactor.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn gRepo.TxFunc) error {
			return fn(ctx, (*sqlx.Tx)(nil))
		})
}

// expectLocks serves the reads of UpdateStatus and asserts the booking row is locked before
// the payment row.
func (f fixture) expectLocks(t *testing.T, payment model.Payment, booking bookingModel.Booking) {
	t.Helper()

	gomock.InOrder(
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(payment, nil),
		f.bookingRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (bookingModel.Booking, error) {
				_, args := filter.GetWhereClause()
				assert.Equal(t, payment.BookingID, args[bookingModel.FieldID])

				return booking, nil
			}),
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(payment, nil),
	)
}

func (f fixture) expectSummaries(status bookingModel.Status) {
	f.bookingRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]bookingModel.Booking{sampleBooking(status)}, nil)
	f.serviceRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]offeringModel.Service{{ID: "service-1", Name: "Full Day Wedding"}}, nil)
}

func samplePayment(status model.Status) model.Payment {
	return model.Payment{
		ID:            "payment-1",
		BookingID:     "booking-1",
		TransactionID: "TXN-0123456789ABCDEF",
		Amount:        decimal.RequireFromString("1120"),
		Method:        constant.PaymentMethodInPerson,
		Status:        status,
		BookingOwner:  "user-1",
		Metadata:      gModel.NewMetadata("user-1", timezone.Now()),
	}
}

func sampleBooking(status bookingModel.Status) bookingModel.Booking {
	return bookingModel.Booking{
		ID:               "booking-1",
		BookingReference: "BK-0123456789AB-20300101",
		UserID:           "user-1",
		ServiceID:        "service-1",
		BookingDate:      time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		BookingTime:      "10:00",
		CustomerName:     "Ana",
		Total:            decimal.RequireFromString("1120"),
		Status:           status,
	}
}

func TestPaymentService_GetAll(t *testing.T) {
	tests := []struct {
		name      string
		actor     principal.Principal
		wantScope bool
	}{
		{name: "customer sees payments of own bookings", actor: customer, wantScope: true},
		{name: "admin sees every payment", actor: admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
			f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Payment, error) {
					where, _ := filter.GetWhereClause()

					assert.Equal(t, "payments.created_at", params.SortBy)
					assert.Equal(t, tt.wantScope, strings.Contains(where, "bookings.user_id"))

					return []model.Payment{samplePayment(model.StatusPending)}, nil
				})
			f.expectSummaries(bookingModel.StatusPending)

			res, err := f.svc.GetAll(context.Background(), tt.actor, gDto.QueryParams{Page: 1, Limit: 10}, dto.ListFilter{})

			require.NoError(t, err)
			require.Len(t, res.Payments, 1)
			assert.Equal(t, "1120.00", res.Payments[0].Amount)
			require.NotNil(t, res.Payments[0].Booking)
			assert.Equal(t, "2030-01-01", res.Payments[0].Booking.BookingDate)
			require.NotNil(t, res.Payments[0].Booking.Service)
			assert.Equal(t, "Full Day Wedding", res.Payments[0].Booking.Service.Name)
		})
	}
}

func TestPaymentService_Get(t *testing.T) {
	tests := []struct {
		name     string
		actor    principal.Principal
		mockRes  model.Payment
		wantCode int
	}{
		{name: "owner", actor: customer, mockRes: samplePayment(model.StatusPaid)},
		{name: "admin", actor: admin, mockRes: samplePayment(model.StatusPaid)},
		{name: "other customer", actor: stranger, mockRes: samplePayment(model.StatusPaid), wantCode: http.StatusForbidden},
		{name: "missing", actor: admin, mockRes: model.Payment{}, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.mockRes, nil)

			if tt.wantCode == 0 {
				f.expectSummaries(bookingModel.StatusConfirmed)
			}

			res, err := f.svc.Get(context.Background(), tt.actor, "payment-1")

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, string(model.StatusPaid), res.Status)
		})
	}
}

func TestPaymentService_UpdateStatus_PaidConfirmsBooking(t *testing.T) {
	f := newFixture(t)

	notes := "paid at the counter"

	f.expectTransaction()
	f.expectLocks(t, samplePayment(model.StatusPending), sampleBooking(bookingModel.StatusPending))
	gomock.InOrder(
		f.bookingRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, string(bookingModel.StatusConfirmed), fields[bookingModel.FieldStatus])

				return nil
			}),
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, string(model.StatusPaid), fields[model.FieldStatus])
				assert.Equal(t, notes, fields[model.FieldNotes])

				return nil
			}),
	)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(samplePayment(model.StatusPaid), nil)
	f.expectSummaries(bookingModel.StatusConfirmed)

	res, err := f.svc.UpdateStatus(context.Background(), admin, "payment-1",
		dto.UpdatePaymentRequest{Status: string(model.StatusPaid), Notes: &notes})

	require.NoError(t, err)
	assert.Equal(t, string(model.StatusPaid), res.Status)
	require.NotNil(t, res.Booking)
	assert.Equal(t, string(bookingModel.StatusConfirmed), res.Booking.Status)
}

func TestPaymentService_UpdateStatus_PaidAgain(t *testing.T) {
	online := samplePayment(model.StatusPaid)
	online.Method = constant.PaymentMethodOnline

	tests := []struct {
		name        string
		payment     model.Payment
		booking     bookingModel.Status
		wantConfirm bool
	}{
		{name: "online payment confirms its pending booking", payment: online, booking: bookingModel.StatusPending, wantConfirm: true},
		{name: "confirmed booking is left alone", payment: online, booking: bookingModel.StatusConfirmed},
		{name: "completed booking is left alone", payment: samplePayment(model.StatusPaid), booking: bookingModel.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			notes := "customer called"

			f.expectTransaction()
			f.expectLocks(t, tt.payment, sampleBooking(tt.booking))

			if tt.wantConfirm {
				f.bookingRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error {
						_, args := filter.GetWhereClause()

						assert.Equal(t, string(bookingModel.StatusConfirmed), fields[bookingModel.FieldStatus])
						assert.Equal(t, tt.payment.BookingID, args[bookingModel.FieldID])

						return nil
					})
			}

			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
					assert.NotContains(t, fields, model.FieldStatus)
					assert.Equal(t, notes, fields[model.FieldNotes])

					return nil
				})
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.payment, nil)
			f.expectSummaries(bookingModel.StatusConfirmed)

			res, err := f.svc.UpdateStatus(context.Background(), admin, "payment-1",
				dto.UpdatePaymentRequest{Status: string(model.StatusPaid), Notes: &notes})

			require.NoError(t, err)
			assert.Equal(t, string(model.StatusPaid), res.Status)
		})
	}
}

func TestPaymentService_UpdateStatus_FailedLeavesBooking(t *testing.T) {
	f := newFixture(t)

	f.expectTransaction()
	f.expectLocks(t, samplePayment(model.StatusPending), sampleBooking(bookingModel.StatusPending))
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, string(model.StatusFailed), fields[model.FieldStatus])

			return nil
		})
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(samplePayment(model.StatusFailed), nil)
	f.expectSummaries(bookingModel.StatusPending)

	res, err := f.svc.UpdateStatus(context.Background(), admin, "payment-1", dto.UpdatePaymentRequest{Status: string(model.StatusFailed)})

	require.NoError(t, err)
	assert.Equal(t, string(model.StatusFailed), res.Status)
}

func TestPaymentService_UpdateStatus_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		actor    principal.Principal
		status   model.Status
		stored   *model.Payment
		booking  bookingModel.Status
		wantCode int
	}{
		{name: "customer", actor: customer, status: model.StatusPaid, wantCode: http.StatusForbidden},
		{name: "unknown status", actor: admin, status: "settled", wantCode: http.StatusUnprocessableEntity},
		{name: "missing payment", actor: admin, status: model.StatusPaid, stored: &model.Payment{}, wantCode: http.StatusNotFound},
		{
			name:     "refunded is terminal",
			actor:    admin,
			status:   model.StatusPaid,
			stored:   ptr(samplePayment(model.StatusRefunded)),
			booking:  bookingModel.StatusCancelled,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "paid cannot fail",
			actor:    admin,
			status:   model.StatusFailed,
			stored:   ptr(samplePayment(model.StatusPaid)),
			booking:  bookingModel.StatusConfirmed,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "booking already cancelled",
			actor:    admin,
			status:   model.StatusPaid,
			stored:   ptr(samplePayment(model.StatusPending)),
			booking:  bookingModel.StatusCancelled,
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			switch {
			case tt.stored == nil:
			case tt.stored.ID == constant.Empty:
				f.expectTransaction()
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(*tt.stored, nil)
			default:
				f.expectTransaction()
				f.expectLocks(t, *tt.stored, sampleBooking(tt.booking))
			}

			_, err := f.svc.UpdateStatus(context.Background(), tt.actor, "payment-1", dto.UpdatePaymentRequest{Status: string(tt.status)})

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
