package dto

import (
	"studio/internal/domains/booking/model"
	offeringModel "studio/internal/domains/offering/model"
	offeringDto "studio/internal/domains/offering/model/dto"
	paymentModel "studio/internal/domains/payment/model"
	paymentDto "studio/internal/domains/payment/model/dto"
	userModel "studio/internal/domains/user/model"
	userDto "studio/internal/domains/user/model/dto"
	"studio/shared"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	gModel "studio/shared/model"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddonRequest struct {
	Name        string           `json:"name"        validate:"required,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price"       validate:"required,gte=0"         swaggertype:"number"`
	Quantity    *int             `json:"quantity"    validate:"omitnil,gte=1"`
}

type CreateBookingRequest struct {
	ServiceID       string              `json:"service_id"       validate:"required,uuid"`
	BookingDate     string              `json:"booking_date"     validate:"required,dateonly"`
	BookingTime     string              `json:"booking_time"     validate:"required,clock"`
	CustomerName    string              `json:"customer_name"    validate:"required,max=255"`
	CustomerEmail   string              `json:"customer_email"   validate:"required,email,max=255"`
	CustomerPhone   string              `json:"customer_phone"   validate:"required,max=20"`
	LocationAddress *string             `json:"location_address" validate:"omitempty,max=500"`
	LocationLat     decimal.NullDecimal `json:"location_lat"                                   swaggertype:"number"`
	LocationLng     decimal.NullDecimal `json:"location_lng"                                   swaggertype:"number"`
	SpecialRequests *string             `json:"special_requests" validate:"omitempty,max=2000"`
	PaymentMethod   string              `json:"payment_method"   validate:"required,oneof=online in_person"`
	Addons          []AddonRequest      `json:"addons"           validate:"omitempty,dive"`
}

// ToModel builds the pending booking row. Pricing and the reference are filled in by the caller.
func (r *CreateBookingRequest) ToModel(userID, actor string, date, now time.Time) model.Booking {
	return model.Booking{
		ID:              uuid.NewString(),
		UserID:          userID,
		ServiceID:       r.ServiceID,
		BookingDate:     date,
		BookingTime:     r.BookingTime,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		LocationAddress: r.LocationAddress,
		LocationLat:     r.LocationLat,
		LocationLng:     r.LocationLng,
		SpecialRequests: r.SpecialRequests,
		Status:          model.StatusPending,
		PaymentMethod:   r.PaymentMethod,
		Metadata:        gModel.NewMetadata(actor, now),
	}
}

// ToAddons converts the requested add-ons for booking bookingID. An omitted quantity means 1.
func (r *CreateBookingRequest) ToAddons(bookingID string, metadata gModel.Metadata) []model.Addon {
	addons := make([]model.Addon, len(r.Addons))

	for i, req := range r.Addons {
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		price := decimal.Zero
		if req.Price != nil {
			price = req.Price.Round(2)
		}

		addons[i] = model.Addon{
			ID:          uuid.NewString(),
			BookingID:   bookingID,
			Name:        req.Name,
			Description: req.Description,
			Price:       price,
			Quantity:    quantity,
			Metadata:    metadata,
		}
	}

	return addons
}

// UpdateBookingRequest is a partial edit. Only Status is open to the booking owner, and only
// for cancellation.
type UpdateBookingRequest struct {
	BookingDate     *string `json:"booking_date"     validate:"omitnil,dateonly"`
	BookingTime     *string `json:"booking_time"     validate:"omitnil,clock"`
	SpecialRequests *string `json:"special_requests" validate:"omitnil,max=2000"`
	Status          *string `json:"status"           validate:"omitnil,oneof=pending confirmed completed cancelled"`
}

func (r *UpdateBookingRequest) IsEmpty() bool {
	return r.BookingDate == nil && r.BookingTime == nil && r.SpecialRequests == nil && r.Status == nil
}

type AvailabilityRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	Date      string `json:"date"       validate:"required,dateonly"`
}

type AvailabilityResponse struct {
	ServiceID      string   `json:"service_id"`
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
}

type AddonResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       string  `json:"price"`
	Quantity    int     `json:"quantity"`
	LineTotal   string  `json:"line_total"`
}

func (r *AddonResponse) FromModel(mod model.Addon) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Description = mod.Description
	r.Price = mod.Price.StringFixed(2)
	r.Quantity = mod.Quantity
	r.LineTotal = mod.LineTotal().StringFixed(2)
}

// Relations holds the rows a page of bookings refers to, each loaded with one query.
// Services and Users are keyed by id, Payments and Addons by booking id.
type Relations struct {
	Services map[string]offeringModel.Service
	Users    map[string]userModel.User
	Payments map[string]paymentModel.Payment
	Addons   map[string][]model.Addon
}

type BookingResponse struct {
	ID               string                       `json:"id"`
	BookingReference string                       `json:"booking_reference"`
	UserID           string                       `json:"user_id"`
	ServiceID        string                       `json:"service_id"`
	BookingDate      string                       `json:"booking_date"`
	BookingTime      string                       `json:"booking_time"`
	CustomerName     string                       `json:"customer_name"`
	CustomerEmail    string                       `json:"customer_email"`
	CustomerPhone    string                       `json:"customer_phone"`
	LocationAddress  *string                      `json:"location_address"`
	LocationLat      decimal.NullDecimal          `json:"location_lat"      swaggertype:"number"`
	LocationLng      decimal.NullDecimal          `json:"location_lng"      swaggertype:"number"`
	SpecialRequests  *string                      `json:"special_requests"`
	Subtotal         string                       `json:"subtotal"`
	Tax              string                       `json:"tax"`
	Discount         string                       `json:"discount"`
	Total            string                       `json:"total"`
	Status           string                       `json:"status"`
	PaymentMethod    string                       `json:"payment_method"`
	Service          *offeringDto.ServiceResponse `json:"service"`
	Payment          *paymentDto.PaymentResponse  `json:"payment"`
	User             *userDto.UserResponse        `json:"user"`
	Addons           []AddonResponse              `json:"addons"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking, rel Relations) {
	r.ID = mod.ID
	r.BookingReference = mod.BookingReference
	r.UserID = mod.UserID
	r.ServiceID = mod.ServiceID
	r.BookingDate = mod.BookingDate.Format(constant.DateOnlyFormat)
	r.BookingTime = mod.BookingTime
	r.CustomerName = mod.CustomerName
	r.CustomerEmail = mod.CustomerEmail
	r.CustomerPhone = mod.CustomerPhone
	r.LocationAddress = mod.LocationAddress
	r.LocationLat = mod.LocationLat
	r.LocationLng = mod.LocationLng
	r.SpecialRequests = mod.SpecialRequests
	r.Subtotal = mod.Subtotal.StringFixed(2)
	r.Tax = mod.Tax.StringFixed(2)
	r.Discount = mod.Discount.StringFixed(2)
	r.Total = mod.Total.StringFixed(2)
	r.Status = string(mod.Status)
	r.PaymentMethod = mod.PaymentMethod
	r.Metadata.FromModel(mod.Metadata)

	r.Service = nil
	if service, ok := rel.Services[mod.ServiceID]; ok {
		r.Service = &offeringDto.ServiceResponse{}
		r.Service.FromModel(service)
	}

	r.User = nil
	if user, ok := rel.Users[mod.UserID]; ok {
		r.User = &userDto.UserResponse{}
		r.User.FromModel(user)
	}

	r.Payment = nil
	if payment, ok := rel.Payments[mod.ID]; ok {
		r.Payment = &paymentDto.PaymentResponse{}
		r.Payment.FromModel(payment)
	}

	addons := rel.Addons[mod.ID]

	r.Addons = make([]AddonResponse, len(addons))
	for i, addon := range addons {
		r.Addons[i].FromModel(addon)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, rel Relations, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod, rel)
	}
}

// ListFilter carries the optional query string filters of the booking listing.
type ListFilter struct {
	Status      string
	ServiceID   string
	BookingDate string
}

func (f ListFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Status != "" {
		group.Filters = append(group.Filters, shared.FilterBy(model.FieldStatus, f.Status, model.TableName))
	}

	if f.ServiceID != "" {
		group.Filters = append(group.Filters, shared.FilterBy(model.FieldServiceID, f.ServiceID, model.TableName))
	}

	if f.BookingDate != "" {
		group.Filters = append(group.Filters, shared.FilterBy(model.FieldBookingDate, f.BookingDate, model.TableName))
	}

	return group
}
