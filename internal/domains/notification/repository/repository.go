package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"studio/infras/otel"
	"studio/infras/postgres"
	"studio/internal/domains/notification/model"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/logger"
	gRepo "studio/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type Notification interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Notification) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Notification, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Notification, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Notification]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Notification {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Notification](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// DeleteReadBefore removes read notifications created before the cutoff and reports how many went.
func (r *repositoryImpl) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.DeleteReadBefore")
	defer scope.End()

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = TRUE AND %s < $1", model.TableName, model.FieldRead, model.FieldCreatedAt)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := r.db.Write.ExecContext(ctx, query, before)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to prune notifications: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read pruned rows: %w", err)
	}

	return affected, nil
}
