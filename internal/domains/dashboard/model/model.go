package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RecentBookingsLimit  = 10
	PopularServicesLimit = 5
	RevenueMonths        = 6
)

// Totals are the headline figures of the admin dashboard.
type Totals struct {
	TotalBookings     int             `db:"total_bookings"`
	PendingBookings   int             `db:"pending_bookings"`
	ConfirmedBookings int             `db:"confirmed_bookings"`
	CompletedBookings int             `db:"completed_bookings"`
	CancelledBookings int             `db:"cancelled_bookings"`
	TotalRevenue      decimal.Decimal `db:"total_revenue"`
	PendingPayments   decimal.Decimal `db:"pending_payments"`
	TotalCustomers    int             `db:"total_customers"`
	TotalServices     int             `db:"total_services"`
	TotalPortfolios   int             `db:"total_portfolios"`
}

// MonthlyRevenue is the paid amount of one calendar month, labelled YYYY-MM.
type MonthlyRevenue struct {
	Month string          `db:"month"`
	Total decimal.Decimal `db:"total"`
}

type RecentBooking struct {
	ID               string          `db:"id"`
	BookingReference string          `db:"booking_reference"`
	CustomerName     string          `db:"customer_name"`
	UserName         string          `db:"user_name"`
	ServiceName      string          `db:"service_name"`
	BookingDate      time.Time       `db:"booking_date"`
	BookingTime      string          `db:"booking_time"`
	Total            decimal.Decimal `db:"total"`
	Status           string          `db:"status"`
	PaymentStatus    *string         `db:"payment_status"`
	CreatedAt        time.Time       `db:"created_at"`
}

type PopularService struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Slug          string          `db:"slug"`
	Price         decimal.Decimal `db:"price"`
	BookingsCount int             `db:"bookings_count"`
}

// RevenueSince returns the first day of the month RevenueMonths-1 months before now, so the
// window holds the current month and the five before it.
func RevenueSince(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()-RevenueMonths+1, 1, 0, 0, 0, 0, now.Location())
}
