package dto

import (
	"studio/internal/domains/dashboard/model"
	"studio/shared/constant"
	"studio/shared/timezone"
)

type MonthlyRevenueResponse struct {
	Month string `json:"month"`
	Total string `json:"total"`
}

type RecentBookingResponse struct {
	ID               string  `json:"id"`
	BookingReference string  `json:"booking_reference"`
	CustomerName     string  `json:"customer_name"`
	UserName         string  `json:"user_name"`
	ServiceName      string  `json:"service_name"`
	BookingDate      string  `json:"booking_date"`
	BookingTime      string  `json:"booking_time"`
	Total            string  `json:"total"`
	Status           string  `json:"status"`
	PaymentStatus    *string `json:"payment_status"`
	CreatedAt        string  `json:"created_at"`
}

type PopularServiceResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Price         string `json:"price"`
	BookingsCount int    `json:"bookings_count"`
}

type StatsResponse struct {
	TotalBookings     int                      `json:"total_bookings"`
	PendingBookings   int                      `json:"pending_bookings"`
	ConfirmedBookings int                      `json:"confirmed_bookings"`
	CompletedBookings int                      `json:"completed_bookings"`
	CancelledBookings int                      `json:"cancelled_bookings"`
	TotalRevenue      string                   `json:"total_revenue"`
	PendingPayments   string                   `json:"pending_payments"`
	TotalCustomers    int                      `json:"total_customers"`
	TotalServices     int                      `json:"total_services"`
	TotalPortfolios   int                      `json:"total_portfolios"`
	MonthlyRevenue    []MonthlyRevenueResponse `json:"monthly_revenue"`
	RecentBookings    []RecentBookingResponse  `json:"recent_bookings"`
	PopularServices   []PopularServiceResponse `json:"popular_services"`
}

func (r *StatsResponse) FromTotals(totals model.Totals) {
	r.TotalBookings = totals.TotalBookings
	r.PendingBookings = totals.PendingBookings
	r.ConfirmedBookings = totals.ConfirmedBookings
	r.CompletedBookings = totals.CompletedBookings
	r.CancelledBookings = totals.CancelledBookings
	r.TotalRevenue = totals.TotalRevenue.StringFixed(2)
	r.PendingPayments = totals.PendingPayments.StringFixed(2)
	r.TotalCustomers = totals.TotalCustomers
	r.TotalServices = totals.TotalServices
	r.TotalPortfolios = totals.TotalPortfolios
}

func (r *StatsResponse) WithMonthlyRevenue(rows []model.MonthlyRevenue) {
	r.MonthlyRevenue = make([]MonthlyRevenueResponse, len(rows))
	for i, row := range rows {
		r.MonthlyRevenue[i] = MonthlyRevenueResponse{Month: row.Month, Total: row.Total.StringFixed(2)}
	}
}

func (r *StatsResponse) WithRecentBookings(rows []model.RecentBooking) {
	r.RecentBookings = make([]RecentBookingResponse, len(rows))
	for i, row := range rows {
		r.RecentBookings[i] = RecentBookingResponse{
			ID:               row.ID,
			BookingReference: row.BookingReference,
			CustomerName:     row.CustomerName,
			UserName:         row.UserName,
			ServiceName:      row.ServiceName,
			BookingDate:      row.BookingDate.Format(constant.DateOnlyFormat),
			BookingTime:      row.BookingTime,
			Total:            row.Total.StringFixed(2),
			Status:           row.Status,
			PaymentStatus:    row.PaymentStatus,
			CreatedAt:        timezone.Format(row.CreatedAt, constant.DateFormat),
		}
	}
}

func (r *StatsResponse) WithPopularServices(rows []model.PopularService) {
	r.PopularServices = make([]PopularServiceResponse, len(rows))
	for i, row := range rows {
		r.PopularServices[i] = PopularServiceResponse{
			ID:            row.ID,
			Name:          row.Name,
			Slug:          row.Slug,
			Price:         row.Price.StringFixed(2),
			BookingsCount: row.BookingsCount,
		}
	}
}
