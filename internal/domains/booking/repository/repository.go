package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"studio/infras/otel"
	"studio/infras/postgres"
	"studio/internal/domains/booking/model"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/logger"
	gRepo "studio/shared/repository"

	"github.com/jmoiron/sqlx"
)

const (
	lockSlotQuery = `SELECT pg_advisory_xact_lock(hashtext($1))`

	slotTakenQuery = `SELECT EXISTS(
	SELECT 1 FROM bookings
	WHERE service_id = $1 AND booking_date = $2 AND booking_time = $3
		AND status <> 'cancelled' AND id::text <> $4)`

	bookedTimesQuery = `SELECT booking_time FROM bookings
	WHERE service_id = $1 AND booking_date = $2 AND status <> 'cancelled'`
)

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.Booking, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
	LockSlotTx(ctx context.Context, sqltx *sqlx.Tx, slot model.SlotKey) error
	SlotTakenTx(ctx context.Context, sqltx *sqlx.Tx, slot model.SlotKey, excludeID string) (bool, error)
	BookedTimes(ctx context.Context, serviceID, date string) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LockSlotTx serialises writers of one slot until the surrounding transaction ends. The
// partial unique index on active slots still backs it up.
func (r *repositoryImpl) LockSlotTx(ctx context.Context, sqltx *sqlx.Tx, slot model.SlotKey) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockSlotTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, lockSlotQuery)

	if _, err := sqltx.ExecContext(ctx, lockSlotQuery, slot.String()); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to lock booking slot: %w", err)
	}

	return nil
}

func (r *repositoryImpl) SlotTakenTx(ctx context.Context, sqltx *sqlx.Tx, slot model.SlotKey, excludeID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.SlotTakenTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, slotTakenQuery)

	taken := false

	if err := sqltx.GetContext(ctx, &taken, slotTakenQuery, slot.ServiceID, slot.Date, slot.Time, excludeID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check booking slot: %w", err)
	}

	return taken, nil
}

// BookedTimes lists the claimed slot labels of a service on a date. It reads from the
// primary so a booking that was just committed is never offered again.
func (r *repositoryImpl) BookedTimes(ctx context.Context, serviceID, date string) ([]string, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.BookedTimes")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, bookedTimesQuery)

	times := []string{}

	if err := r.db.Write.SelectContext(ctx, &times, bookedTimesQuery, serviceID, date); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list booked times: %w", err)
	}

	return times, nil
}
