package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"studio/config"
	"studio/infras/kafka"
	"studio/infras/otel"
	"studio/internal/domains/booking/model"
	"studio/internal/domains/booking/model/dto"
	"studio/internal/domains/booking/repository"
	"studio/internal/domains/notification/event"
	notificationModel "studio/internal/domains/notification/model"
	notificationRepo "studio/internal/domains/notification/repository"
	offeringModel "studio/internal/domains/offering/model"
	offeringRepo "studio/internal/domains/offering/repository"
	paymentModel "studio/internal/domains/payment/model"
	paymentRepo "studio/internal/domains/payment/repository"
	userModel "studio/internal/domains/user/model"
	userRepo "studio/internal/domains/user/repository"
	"studio/shared"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/failure"
	"studio/shared/principal"
	"studio/shared/reference"
	gRepo "studio/shared/repository"
	"studio/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	msgSlotTaken          = "This time slot is already booked. Please choose another date/time."
	msgInvalidDate        = "The booking_date must be a valid date in YYYY-MM-DD format."
	msgDateNotFuture      = "The booking_date must be a date after today."
	msgInvalidSlot        = "The selected booking_time is invalid."
	msgServiceUnavailable = "The selected service is not available for booking."
	msgCannotModify       = "Cannot modify a %s booking."
	msgInvalidTransition  = "Cannot change booking status from %s to %s."
	msgOwnerMayOnlyCancel = "You may only cancel your booking."
	msgDeleteCompleted    = "Cannot delete a completed booking."
)

var sortableColumns = []string{model.FieldBookingDate, model.FieldBookingTime, model.FieldStatus, model.FieldTotal, model.FieldCreatedAt}

type Booking interface {
	Availability(ctx context.Context, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	Create(ctx context.Context, actor principal.Principal, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, actor principal.Principal, params gDto.QueryParams, filter dto.ListFilter) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, actor principal.Principal, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, actor principal.Principal, id string, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	Delete(ctx context.Context, actor principal.Principal, id string) error
}

type serviceImpl struct {
	repo             repository.Booking
	addonRepo        repository.Addon
	serviceRepo      offeringRepo.Service
	paymentRepo      paymentRepo.Payment
	userRepo         userRepo.User
	notificationRepo notificationRepo.Notification
	transactor       gRepo.Transactor
	generator        reference.Generator
	publisher        kafka.Publisher
	cfg              *config.Config
	otel             otel.Otel
}

func New(
	repo repository.Booking,
	addonRepo repository.Addon,
	serviceRepo offeringRepo.Service,
	paymentRepo paymentRepo.Payment,
	userRepo userRepo.User,
	notificationRepo notificationRepo.Notification,
	transactor gRepo.Transactor,
	generator reference.Generator,
	publisher kafka.Publisher,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:             repo,
		addonRepo:        addonRepo,
		serviceRepo:      serviceRepo,
		paymentRepo:      paymentRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		transactor:       transactor,
		generator:        generator,
		publisher:        publisher,
		cfg:              cfg,
		otel:             otel,
	}
}

// Availability lists the free slots of a service on a date. It is advisory: Create re-checks
// the slot under a lock.
func (s *serviceImpl) Availability(ctx context.Context, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Availability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	date, err := parseDate(req.Date)
	if err != nil {
		return res, err
	}

	if _, err = s.findService(ctx, req.ServiceID); err != nil {
		return res, err
	}

	day := date.Format(constant.DateOnlyFormat)

	booked, err := s.repo.BookedTimes(ctx, req.ServiceID, day)
	if err != nil {
		log.Error().Err(err).Str("service_id", req.ServiceID).Msg("failed to get booked times")

		return res, fmt.Errorf("failed to get booked times: %w", err)
	}

	return dto.AvailabilityResponse{
		ServiceID:      req.ServiceID,
		Date:           day,
		AvailableSlots: model.AvailableSlots(booked),
	}, nil
}

func (s *serviceImpl) Create(ctx context.Context, actor principal.Principal, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.Authenticated(); err != nil {
		return res, err
	}

	date, err := parseFutureDate(req.BookingDate)
	if err != nil {
		return res, err
	}

	if !model.IsSlot(req.BookingTime) {
		return res, failure.Unprocessable(msgInvalidSlot) // nolint:wrapcheck
	}

	service, err := s.findService(ctx, req.ServiceID)
	if err != nil {
		return res, err
	}

	if !service.IsAvailable {
		return res, failure.Unprocessable(msgServiceUnavailable) // nolint:wrapcheck
	}

	now := timezone.Now()

	booking := req.ToModel(actor.UserID, actor.Actor(), date, now)
	booking.BookingReference = s.generator.BookingReference(now)
	addons := req.ToAddons(booking.ID, booking.Metadata)
	booking.ApplyQuote(model.NewQuote(service.Price, addons))

	payment := paymentModel.New(booking.ID, s.generator.TransactionID(), booking.Total, booking.PaymentMethod, actor.Actor(), now)

	notification, err := notificationModel.NewBookingReceived(notificationModel.NewBooking{
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		CustomerName:     booking.CustomerName,
		ServiceName:      service.Name,
		BookingDate:      booking.BookingDate.Format(constant.DateOnlyFormat),
		BookingTime:      booking.BookingTime,
		Total:            booking.Total.StringFixed(2),
	}, actor.Actor(), now)
	if err != nil {
		log.Error().Err(err).Msg("failed to build booking notification")

		return res, fmt.Errorf("failed to build booking notification: %w", err)
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.claimSlot(ctx, tx, booking.Slot(), constant.Empty); err != nil {
			return err
		}

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return err //nolint:wrapcheck
		}

		if len(addons) > 0 {
			if err := s.addonRepo.InsertBulkTx(ctx, tx, addons); err != nil {
				return err //nolint:wrapcheck
			}
		}

		if err := s.paymentRepo.InsertTx(ctx, tx, payment); err != nil {
			return err //nolint:wrapcheck
		}

		return s.notificationRepo.InsertTx(ctx, tx, notification) //nolint:wrapcheck
	})
	if err != nil {
		return res, writeError(err, "failed to create booking")
	}

	go func() {
		event.Publish(context.WithoutCancel(ctx), s.publisher, s.cfg.Kafka.Topic, s.cfg.App.Name, notification)
	}()

	return s.reload(ctx, booking.ID)
}

func (s *serviceImpl) GetAll(ctx context.Context, actor principal.Principal, params gDto.QueryParams, filter dto.ListFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.Authenticated(); err != nil {
		return res, err
	}

	params.Sanitize(model.TableName, sortableColumns...)

	group := filter.ToFilterGroup()
	if !actor.IsAdmin() {
		group.Filters = append(group.Filters, shared.FilterBy(model.FieldUserID, actor.UserID, model.TableName))
	}

	total, err := s.count(ctx, group)
	if err != nil {
		return res, err
	}

	bookings, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	rel, err := s.relations(ctx, bookings)
	if err != nil {
		return res, err
	}

	res.FromModels(bookings, rel, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return total, fmt.Errorf("failed to count bookings: %w", err)
	}

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, actor principal.Principal, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.Authenticated(); err != nil {
		return res, err
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = actor.RequireAccess(booking.UserID); err != nil {
		return res, err
	}

	return s.hydrate(ctx, booking)
}

// Update edits the schedule or moves the status of a booking. The row is locked for the whole
// edit, a new date or time re-claims the slot, and cancelling refunds the payment.
func (s *serviceImpl) Update(ctx context.Context, actor principal.Principal, id string, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.Authenticated(); err != nil {
		return res, err
	}

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	var target *model.Status

	if req.Status != nil {
		status := model.Status(*req.Status)
		if !status.Valid() {
			return res, failure.Unprocessable("The selected status is invalid.") // nolint:wrapcheck
		}

		if !actor.IsAdmin() && status != model.StatusCancelled {
			return res, failure.Forbidden(msgOwnerMayOnlyCancel) // nolint:wrapcheck
		}

		target = &status
	}

	var date *time.Time

	if req.BookingDate != nil {
		parsed, err := parseFutureDate(*req.BookingDate)
		if err != nil {
			return res, err
		}

		date = &parsed
	}

	if req.BookingTime != nil && !model.IsSlot(*req.BookingTime) {
		return res, failure.Unprocessable(msgInvalidSlot) // nolint:wrapcheck
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return err //nolint:wrapcheck
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if err := actor.RequireAccess(booking.UserID); err != nil {
			return err //nolint:wrapcheck
		}

		if booking.Status.IsTerminal() {
			return failure.Conflict(fmt.Sprintf(msgCannotModify, booking.Status)) // nolint:wrapcheck
		}

		fields := map[string]any{
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: actor.Actor(),
		}

		if req.SpecialRequests != nil {
			fields[model.FieldSpecialRequests] = *req.SpecialRequests
		}

		slot := booking.Slot()
		if date != nil {
			slot.Date = date.Format(constant.DateOnlyFormat)
		}

		if req.BookingTime != nil {
			slot.Time = *req.BookingTime
		}

		cancelling := false

		if target != nil && *target != booking.Status {
			if !booking.Status.CanTransition(*target) {
				return failure.Conflict(fmt.Sprintf(msgInvalidTransition, booking.Status, *target)) // nolint:wrapcheck
			}

			fields[model.FieldStatus] = string(*target)
			cancelling = *target == model.StatusCancelled
		}

		if slot != booking.Slot() {
			if !cancelling {
				if err := s.claimSlot(ctx, tx, slot, booking.ID); err != nil {
					return err
				}
			}

			fields[model.FieldBookingDate] = slot.Date
			fields[model.FieldBookingTime] = slot.Time
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return err //nolint:wrapcheck
		}

		if cancelling {
			return s.refundPayment(ctx, tx, booking.ID)
		}

		return nil
	})
	if err != nil {
		return res, writeError(err, "failed to update booking")
	}

	return s.reload(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, actor principal.Principal, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.Authenticated(); err != nil {
		return err
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		filter := shared.FilterByID(id, model.FieldID, model.TableName)

		booking, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if err := actor.RequireAccess(booking.UserID); err != nil {
			return err //nolint:wrapcheck
		}

		if booking.Status == model.StatusCompleted {
			return failure.Conflict(msgDeleteCompleted) // nolint:wrapcheck
		}

		return s.repo.DeleteTx(ctx, tx, filter) //nolint:wrapcheck
	})
	if err != nil {
		return writeError(err, "failed to delete booking")
	}

	return nil
}

// claimSlot takes the advisory lock of slot and fails with a conflict when another live booking
// already holds it.
func (s *serviceImpl) claimSlot(ctx context.Context, tx *sqlx.Tx, slot model.SlotKey, excludeID string) error {
	if err := s.repo.LockSlotTx(ctx, tx, slot); err != nil {
		return err //nolint:wrapcheck
	}

	taken, err := s.repo.SlotTakenTx(ctx, tx, slot, excludeID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if taken {
		return failure.Conflict(msgSlotTaken) // nolint:wrapcheck
	}

	return nil
}

// refundPayment marks the payment of a cancelled booking as refunded. No other payment
// column changes.
func (s *serviceImpl) refundPayment(ctx context.Context, tx *sqlx.Tx, bookingID string) error {
	filter := shared.FilterBy(paymentModel.FieldBookingID, bookingID, paymentModel.TableName)

	payment, err := s.paymentRepo.GetForUpdateTx(ctx, tx, filter)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if payment.ID == constant.Empty || payment.Status == paymentModel.StatusRefunded {
		return nil
	}

	fields := map[string]any{paymentModel.FieldStatus: string(paymentModel.StatusRefunded)}

	return s.paymentRepo.UpdateTx(ctx, tx, fields, filter) //nolint:wrapcheck
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) findService(ctx context.Context, id string) (offeringModel.Service, error) {
	service, err := s.serviceRepo.Get(ctx, shared.FilterByID(id, offeringModel.FieldID, offeringModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("service_id", id).Msg("failed to get service")

		return service, fmt.Errorf("failed to get service: %w", err)
	}

	if service.ID == constant.Empty {
		return service, failure.NotFound("service not found") // nolint:wrapcheck
	}

	return service, nil
}

func (s *serviceImpl) reload(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	return s.hydrate(ctx, booking)
}

func (s *serviceImpl) hydrate(ctx context.Context, booking model.Booking) (res dto.BookingResponse, err error) {
	rel, err := s.relations(ctx, []model.Booking{booking})
	if err != nil {
		return res, err
	}

	res.FromModel(booking, rel)

	return res, nil
}

// relations loads what a page of bookings points at with one query per relation.
func (s *serviceImpl) relations(ctx context.Context, bookings []model.Booking) (rel dto.Relations, err error) {
	rel = dto.Relations{
		Services: map[string]offeringModel.Service{},
		Users:    map[string]userModel.User{},
		Payments: map[string]paymentModel.Payment{},
		Addons:   map[string][]model.Addon{},
	}

	if len(bookings) == 0 {
		return rel, nil
	}

	bookingIDs := make([]string, 0, len(bookings))
	serviceIDs := make([]string, 0, len(bookings))
	userIDs := make([]string, 0, len(bookings))

	for _, booking := range bookings {
		bookingIDs = append(bookingIDs, booking.ID)

		if !slices.Contains(serviceIDs, booking.ServiceID) {
			serviceIDs = append(serviceIDs, booking.ServiceID)
		}

		if !slices.Contains(userIDs, booking.UserID) {
			userIDs = append(userIDs, booking.UserID)
		}
	}

	services, err := s.serviceRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterIn(offeringModel.FieldID, serviceIDs, offeringModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booked services")

		return rel, fmt.Errorf("failed to get booked services: %w", err)
	}

	for _, service := range services {
		rel.Services[service.ID] = service
	}

	users, err := s.userRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterIn(userModel.FieldID, userIDs, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking owners")

		return rel, fmt.Errorf("failed to get booking owners: %w", err)
	}

	for _, user := range users {
		rel.Users[user.ID] = user
	}

	payments, err := s.paymentRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterIn(paymentModel.FieldBookingID, bookingIDs, paymentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking payments")

		return rel, fmt.Errorf("failed to get booking payments: %w", err)
	}

	for _, payment := range payments {
		rel.Payments[payment.BookingID] = payment
	}

	addonParams := gDto.QueryParams{
		SortBy:  model.AddonTableName + "." + model.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}

	addons, err := s.addonRepo.GetAll(ctx, addonParams, shared.FilterIn(model.FieldAddonBookingID, bookingIDs, model.AddonTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking addons")

		return rel, fmt.Errorf("failed to get booking addons: %w", err)
	}

	for _, addon := range addons {
		rel.Addons[addon.BookingID] = append(rel.Addons[addon.BookingID], addon)
	}

	return rel, nil
}

func parseDate(value string) (time.Time, error) {
	parsed, err := timezone.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		return time.Time{}, failure.Unprocessable(msgInvalidDate) // nolint:wrapcheck
	}

	return parsed, nil
}

// parseFutureDate accepts only days strictly after today in the studio's timezone.
func parseFutureDate(value string) (time.Time, error) {
	parsed, err := parseDate(value)
	if err != nil {
		return parsed, err
	}

	if !parsed.After(timezone.Today()) {
		return parsed, failure.Unprocessable(msgDateNotFuture) // nolint:wrapcheck
	}

	return parsed, nil
}

// writeError keeps business failures as they are and turns a lost race on the active slot
// index into the same conflict the lock check reports.
func writeError(err error, msg string) error {
	if failure.GetCode(err) != http.StatusInternalServerError {
		return err
	}

	if gRepo.IsUniqueViolation(err, model.ConstraintActiveSlot) {
		return failure.Conflict(msgSlotTaken) // nolint:wrapcheck
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}
