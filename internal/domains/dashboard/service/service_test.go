package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"studio/infras/otel/mocks"
	dashboardMocks "studio/internal/domains/dashboard/mocks"
	"studio/internal/domains/dashboard/model"
	"studio/internal/domains/dashboard/service"
	"studio/shared/constant"
	"studio/shared/failure"
	"studio/shared/principal"
)

func TestDashboardService_Stats(t *testing.T) {
	admin := principal.Principal{UserID: "admin-1", Role: constant.RoleAdmin}
	paid := "paid"

	tests := []struct {
		name     string
		actor    principal.Principal
		setup    func(repo *dashboardMocks.MockDashboard)
		wantCode int
	}{
		{
			name:  "admin",
			actor: admin,
			setup: func(repo *dashboardMocks.MockDashboard) {
				repo.EXPECT().Totals(gomock.Any()).Return(model.Totals{
					TotalBookings:   4,
					PendingBookings: 1,
					TotalRevenue:    decimal.RequireFromString("2240"),
					PendingPayments: decimal.RequireFromString("1120.5"),
					TotalCustomers:  3,
				}, nil)
				repo.EXPECT().MonthlyRevenue(gomock.Any(), gomock.Any()).Return([]model.MonthlyRevenue{
					{Month: "2026-09", Total: decimal.RequireFromString("2240")},
				}, nil)
				repo.EXPECT().RecentBookings(gomock.Any(), model.RecentBookingsLimit).Return([]model.RecentBooking{
					{
						ID:            "booking-1",
						ServiceName:   "Full Day Wedding",
						BookingDate:   time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC),
						Total:         decimal.RequireFromString("2240"),
						Status:        "confirmed",
						PaymentStatus: &paid,
					},
				}, nil)
				repo.EXPECT().PopularServices(gomock.Any(), model.PopularServicesLimit).Return([]model.PopularService{
					{ID: "service-1", Name: "Full Day Wedding", Price: decimal.RequireFromString("1000"), BookingsCount: 4},
				}, nil)
			},
		},
		{
			name:     "customer",
			actor:    principal.Principal{UserID: "user-1", Role: constant.RoleCustomer},
			setup:    func(*dashboardMocks.MockDashboard) {},
			wantCode: http.StatusForbidden,
		},
		{
			name:  "totals query fails",
			actor: admin,
			setup: func(repo *dashboardMocks.MockDashboard) {
				repo.EXPECT().Totals(gomock.Any()).Return(model.Totals{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := dashboardMocks.NewMockDashboard(ctrl)
			tt.setup(repo)

			res, err := service.New(repo, mocks.NewOtel()).Stats(context.Background(), tt.actor)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 4, res.TotalBookings)
			assert.Equal(t, "2240.00", res.TotalRevenue)
			assert.Equal(t, "1120.50", res.PendingPayments)
			require.Len(t, res.MonthlyRevenue, 1)
			assert.Equal(t, "2026-09", res.MonthlyRevenue[0].Month)
			require.Len(t, res.RecentBookings, 1)
			assert.Equal(t, "2026-11-02", res.RecentBookings[0].BookingDate)
			require.Len(t, res.PopularServices, 1)
			assert.Equal(t, 4, res.PopularServices[0].BookingsCount)
		})
	}
}
