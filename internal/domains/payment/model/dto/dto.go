package dto

import (
	bookingModel "studio/internal/domains/booking/model"
	offeringModel "studio/internal/domains/offering/model"
	"studio/internal/domains/payment/model"
	"studio/shared"
	"studio/shared/constant"
	gDto "studio/shared/dto"
)

type UpdatePaymentRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending paid failed refunded"`
	Notes  *string `json:"notes"  validate:"omitempty,max=1000"`
}

type ServiceSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookingSummary is the slice of a booking shown next to its payment.
type BookingSummary struct {
	ID               string          `json:"id"`
	BookingReference string          `json:"booking_reference"`
	UserID           string          `json:"user_id"`
	CustomerName     string          `json:"customer_name"`
	CustomerEmail    string          `json:"customer_email"`
	BookingDate      string          `json:"booking_date"`
	BookingTime      string          `json:"booking_time"`
	Status           string          `json:"status"`
	Total            string          `json:"total"`
	Service          *ServiceSummary `json:"service,omitempty"`
}

func (s *BookingSummary) FromModel(booking bookingModel.Booking, service *offeringModel.Service) {
	s.ID = booking.ID
	s.BookingReference = booking.BookingReference
	s.UserID = booking.UserID
	s.CustomerName = booking.CustomerName
	s.CustomerEmail = booking.CustomerEmail
	s.BookingDate = booking.BookingDate.Format(constant.DateOnlyFormat)
	s.BookingTime = booking.BookingTime
	s.Status = string(booking.Status)
	s.Total = booking.Total.StringFixed(2)

	s.Service = nil
	if service != nil {
		s.Service = &ServiceSummary{ID: service.ID, Name: service.Name}
	}
}

type PaymentResponse struct {
	ID            string          `json:"id"`
	BookingID     string          `json:"booking_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        string          `json:"amount"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	Notes         *string         `json:"notes"`
	Booking       *BookingSummary `json:"booking,omitempty"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(mod model.Payment) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.TransactionID = mod.TransactionID
	r.Amount = mod.Amount.StringFixed(2)
	r.Method = mod.Method
	r.Status = string(mod.Status)
	r.Notes = mod.Notes
	r.Metadata.FromModel(mod.Metadata)
}

func (r *PaymentResponse) WithBooking(summary *BookingSummary) {
	r.Booking = summary
}

type GetPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

// FromModels builds a page of payments. bookings is keyed by booking id; a payment whose
// booking is missing from it is rendered without a summary.
func (r *GetPaymentsResponse) FromModels(models []model.Payment, bookings map[string]BookingSummary, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Payments = make([]PaymentResponse, len(models))
	for i, mod := range models {
		r.Payments[i].FromModel(mod)

		if summary, ok := bookings[mod.BookingID]; ok {
			r.Payments[i].WithBooking(&summary)
		}
	}
}

type ListFilter struct {
	Status string
	Method string
}

func (f ListFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Status != "" {
		group.Filters = append(group.Filters, shared.FilterBy(model.FieldStatus, f.Status, model.TableName))
	}

	if f.Method != "" {
		group.Filters = append(group.Filters, shared.FilterBy(model.FieldMethod, f.Method, model.TableName))
	}

	return group
}
