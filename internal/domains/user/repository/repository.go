package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"studio/infras/otel"
	"studio/infras/postgres"
	"studio/internal/domains/user/model"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/logger"
	gRepo "studio/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const bookingsTable = "bookings"

type User interface {
	Insert(ctx context.Context, model model.User) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	BookingCounts(ctx context.Context, userIDs []string) (map[string]int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// BookingCounts tallies bookings per user in a single grouped query. Users without
// bookings are absent from the result.
func (r *repositoryImpl) BookingCounts(ctx context.Context, userIDs []string) (map[string]int, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.BookingCounts")
	defer scope.End()

	counts := make(map[string]int, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	query := fmt.Sprintf("SELECT user_id, COUNT(id) AS total FROM %s WHERE user_id = ANY($1) GROUP BY user_id", bookingsTable)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []model.BookingCount

	if err := r.db.Read.SelectContext(ctx, &rows, query, pq.Array(userIDs)); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count bookings per user: %w", err)
	}

	for _, row := range rows {
		counts[row.UserID] = row.Total
	}

	return counts, nil
}
