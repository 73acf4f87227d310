package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Payment=MockPaymentService

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"studio/infras/otel"
	bookingModel "studio/internal/domains/booking/model"
	bookingRepo "studio/internal/domains/booking/repository"
	offeringModel "studio/internal/domains/offering/model"
	offeringRepo "studio/internal/domains/offering/repository"
	"studio/internal/domains/payment/model"
	"studio/internal/domains/payment/model/dto"
	"studio/internal/domains/payment/repository"
	"studio/shared"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/failure"
	"studio/shared/principal"
	gRepo "studio/shared/repository"
	"studio/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	msgInvalidTransition = "Cannot change payment status from %s to %s."
	msgCannotConfirm     = "Cannot confirm a %s booking."
)

var sortableColumns = []string{model.FieldAmount, model.FieldStatus, model.FieldMethod, model.FieldCreatedAt}

type Payment interface {
	GetAll(ctx context.Context, actor principal.Principal, params gDto.QueryParams, filter dto.ListFilter) (dto.GetPaymentsResponse, error)
	Get(ctx context.Context, actor principal.Principal, id string) (dto.PaymentResponse, error)
	UpdateStatus(ctx context.Context, actor principal.Principal, id string, req dto.UpdatePaymentRequest) (dto.PaymentResponse, error)
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepo.Booking
	serviceRepo offeringRepo.Service
	transactor  gRepo.Transactor
	otel        otel.Otel
}

func New(
	repo repository.Payment,
	bookingRepo bookingRepo.Booking,
	serviceRepo offeringRepo.Service,
	transactor gRepo.Transactor,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		transactor:  transactor,
		otel:        otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, actor principal.Principal, params gDto.QueryParams, filter dto.ListFilter) (res dto.GetPaymentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.Authenticated(); err != nil {
		return res, err
	}

	params.Sanitize(model.TableName, sortableColumns...)

	group := filter.ToFilterGroup()
	if !actor.IsAdmin() {
		group.Filters = append(group.Filters, shared.FilterBy(model.FieldBookingOwner, actor.UserID, model.BookingsTable))
	}

	total, err := s.count(ctx, group)
	if err != nil {
		return res, err
	}

	payments, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get payments")

		return res, fmt.Errorf("failed to get payments: %w", err)
	}

	summaries, err := s.summaries(ctx, payments)
	if err != nil {
		return res, err
	}

	res.FromModels(payments, summaries, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count payments")

		return total, fmt.Errorf("failed to count payments: %w", err)
	}

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, actor principal.Principal, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.Authenticated(); err != nil {
		return res, err
	}

	payment, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = actor.RequireAccess(payment.BookingOwner); err != nil {
		return res, err
	}

	return s.hydrate(ctx, payment)
}

// UpdateStatus moves a payment along its lifecycle. A paid payment always confirms its
// booking in the same transaction, also when the payment was already paid (online bookings
// start that way); repeating the current status otherwise only stores the notes.
func (s *serviceImpl) UpdateStatus(ctx context.Context, actor principal.Principal, id string, req dto.UpdatePaymentRequest) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	target := model.Status(req.Status)
	if !target.Valid() {
		return res, failure.Unprocessable("The selected status is invalid.") // nolint:wrapcheck
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		filter := shared.FilterByID(id, model.FieldID, model.TableName)

		current, err := s.repo.GetTx(ctx, tx, filter)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if current.ID == constant.Empty {
			return failure.NotFound("payment not found") // nolint:wrapcheck
		}

		// Booking row first, then payment row: the same order a booking cancellation locks in.
		booking, err := s.bookingRepo.GetForUpdateTx(ctx, tx, shared.FilterByID(current.BookingID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			return err //nolint:wrapcheck
		}

		payment, err := s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return err //nolint:wrapcheck
		}

		fields := map[string]any{
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: actor.Actor(),
		}

		if req.Notes != nil {
			fields[model.FieldNotes] = *req.Notes
		}

		if target != payment.Status {
			if !payment.Status.CanTransition(target) {
				return failure.Conflict(fmt.Sprintf(msgInvalidTransition, payment.Status, target)) // nolint:wrapcheck
			}

			fields[model.FieldStatus] = string(target)
		}

		if target == model.StatusPaid {
			if err := s.confirmBooking(ctx, tx, actor, booking); err != nil {
				return err
			}
		}

		return s.repo.UpdateTx(ctx, tx, fields, filter) //nolint:wrapcheck
	})
	if err != nil {
		if failure.GetCode(err) != http.StatusInternalServerError {
			return res, err
		}

		log.Error().Err(err).Str("payment_id", id).Msg("failed to update payment")

		return res, fmt.Errorf("failed to update payment: %w", err)
	}

	payment, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	return s.hydrate(ctx, payment)
}

// confirmBooking is the payment side of the booking lifecycle: a settled payment confirms a
// pending booking and leaves a confirmed or completed one alone. booking must already be locked.
func (s *serviceImpl) confirmBooking(ctx context.Context, tx *sqlx.Tx, actor principal.Principal, booking bookingModel.Booking) error {
	switch {
	case booking.ID == constant.Empty:
		return nil
	case booking.Status == bookingModel.StatusConfirmed, booking.Status == bookingModel.StatusCompleted:
		return nil
	case !booking.Status.CanTransition(bookingModel.StatusConfirmed):
		return failure.Conflict(fmt.Sprintf(msgCannotConfirm, booking.Status)) // nolint:wrapcheck
	}

	fields := map[string]any{
		bookingModel.FieldStatus: string(bookingModel.StatusConfirmed),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor.Actor(),
	}

	return s.bookingRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)) //nolint:wrapcheck
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Payment, error) {
	payment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("payment_id", id).Msg("failed to get payment")

		return payment, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return payment, failure.NotFound("payment not found") // nolint:wrapcheck
	}

	return payment, nil
}

func (s *serviceImpl) hydrate(ctx context.Context, payment model.Payment) (res dto.PaymentResponse, err error) {
	summaries, err := s.summaries(ctx, []model.Payment{payment})
	if err != nil {
		return res, err
	}

	res.FromModel(payment)

	if summary, ok := summaries[payment.BookingID]; ok {
		res.WithBooking(&summary)
	}

	return res, nil
}

// summaries loads the bookings of a page of payments, and their services, keyed by booking id.
func (s *serviceImpl) summaries(ctx context.Context, payments []model.Payment) (map[string]dto.BookingSummary, error) {
	summaries := map[string]dto.BookingSummary{}

	if len(payments) == 0 {
		return summaries, nil
	}

	bookingIDs := make([]string, 0, len(payments))
	for _, payment := range payments {
		bookingIDs = append(bookingIDs, payment.BookingID)
	}

	bookings, err := s.bookingRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterIn(bookingModel.FieldID, bookingIDs, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get paid bookings")

		return summaries, fmt.Errorf("failed to get paid bookings: %w", err)
	}

	serviceIDs := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		if !slices.Contains(serviceIDs, booking.ServiceID) {
			serviceIDs = append(serviceIDs, booking.ServiceID)
		}
	}

	services := map[string]offeringModel.Service{}

	if len(serviceIDs) > 0 {
		rows, err := s.serviceRepo.GetAll(ctx, gDto.QueryParams{}, shared.FilterIn(offeringModel.FieldID, serviceIDs, offeringModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get paid services")

			return summaries, fmt.Errorf("failed to get paid services: %w", err)
		}

		for _, row := range rows {
			services[row.ID] = row
		}
	}

	for _, booking := range bookings {
		summary := dto.BookingSummary{}

		if service, ok := services[booking.ServiceID]; ok {
			summary.FromModel(booking, &service)
		} else {
			summary.FromModel(booking, nil)
		}

		summaries[booking.ID] = summary
	}

	return summaries, nil
}
