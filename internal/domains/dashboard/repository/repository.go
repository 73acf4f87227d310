package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"studio/infras/otel"
	"studio/infras/postgres"
	"studio/internal/domains/dashboard/model"
	"studio/shared/constant"
	"studio/shared/logger"
)

const (
	totalsQuery = `SELECT
	(SELECT COUNT(*) FROM bookings) AS total_bookings,
	(SELECT COUNT(*) FROM bookings WHERE status = 'pending') AS pending_bookings,
	(SELECT COUNT(*) FROM bookings WHERE status = 'confirmed') AS confirmed_bookings,
	(SELECT COUNT(*) FROM bookings WHERE status = 'completed') AS completed_bookings,
	(SELECT COUNT(*) FROM bookings WHERE status = 'cancelled') AS cancelled_bookings,
	(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'paid') AS total_revenue,
	(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'pending') AS pending_payments,
	(SELECT COUNT(*) FROM users WHERE role = 'customer') AS total_customers,
	(SELECT COUNT(*) FROM services) AS total_services,
	(SELECT COUNT(*) FROM portfolios) AS total_portfolios`

	monthlyRevenueQuery = `SELECT to_char(created_at, 'YYYY-MM') AS month, SUM(amount) AS total
FROM payments
WHERE status = 'paid' AND created_at >= $1
GROUP BY month
ORDER BY month`

	recentBookingsQuery = `SELECT b.id, b.booking_reference, b.customer_name, u.name AS user_name,
	s.name AS service_name, b.booking_date, b.booking_time, b.total, b.status,
	p.status AS payment_status, b.created_at
FROM bookings b
INNER JOIN users u ON u.id = b.user_id
INNER JOIN services s ON s.id = b.service_id
LEFT JOIN payments p ON p.booking_id = b.id
ORDER BY b.created_at DESC
LIMIT $1`

	popularServicesQuery = `SELECT s.id, s.name, s.slug, s.price, COUNT(b.id) AS bookings_count
FROM services s
LEFT JOIN bookings b ON b.service_id = s.id
GROUP BY s.id
ORDER BY bookings_count DESC, s.name ASC
LIMIT $1`
)

type Dashboard interface {
	Totals(ctx context.Context) (model.Totals, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]model.MonthlyRevenue, error)
	RecentBookings(ctx context.Context, limit int) ([]model.RecentBooking, error)
	PopularServices(ctx context.Context, limit int) ([]model.PopularService, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Dashboard {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (r *repositoryImpl) Totals(ctx context.Context) (totals model.Totals, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".dashboard.Totals")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, totalsQuery)

	if err = r.db.Read.GetContext(ctx, &totals, totalsQuery); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return totals, fmt.Errorf("failed to compute dashboard totals: %w", err)
	}

	return totals, nil
}

func (r *repositoryImpl) MonthlyRevenue(ctx context.Context, since time.Time) ([]model.MonthlyRevenue, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".dashboard.MonthlyRevenue")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, monthlyRevenueQuery)

	rows := []model.MonthlyRevenue{}

	if err := r.db.Read.SelectContext(ctx, &rows, monthlyRevenueQuery, since); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to compute monthly revenue: %w", err)
	}

	return rows, nil
}

func (r *repositoryImpl) RecentBookings(ctx context.Context, limit int) ([]model.RecentBooking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".dashboard.RecentBookings")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, recentBookingsQuery)

	rows := []model.RecentBooking{}

	if err := r.db.Read.SelectContext(ctx, &rows, recentBookingsQuery, limit); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get recent bookings: %w", err)
	}

	return rows, nil
}

func (r *repositoryImpl) PopularServices(ctx context.Context, limit int) ([]model.PopularService, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".dashboard.PopularServices")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, popularServicesQuery)

	rows := []model.PopularService{}

	if err := r.db.Read.SelectContext(ctx, &rows, popularServicesQuery, limit); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get popular services: %w", err)
	}

	return rows, nil
}
