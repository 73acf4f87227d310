package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"studio/infras/otel"
	"studio/infras/postgres"
	"studio/internal/domains/category/model"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/logger"
	gRepo "studio/shared/repository"

	"github.com/lib/pq"
)

const countsQuery = `SELECT c.id AS category_id,
	(SELECT COUNT(s.id) FROM services s WHERE s.category_id = c.id) AS services_count,
	(SELECT COUNT(p.id) FROM portfolios p WHERE p.category_id = c.id) AS portfolios_count
FROM categories c WHERE c.id = ANY($1)`

type Category interface {
	Insert(ctx context.Context, model model.Category) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Category, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Category, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Counts(ctx context.Context, categoryIDs []string) (map[string]model.Counts, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Category]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Category {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Category](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Counts(ctx context.Context, categoryIDs []string) (map[string]model.Counts, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".category.Counts")
	defer scope.End()

	counts := make(map[string]model.Counts, len(categoryIDs))
	if len(categoryIDs) == 0 {
		return counts, nil
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, countsQuery)

	var rows []model.Counts

	if err := r.db.Read.SelectContext(ctx, &rows, countsQuery, pq.Array(categoryIDs)); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to count category contents: %w", err)
	}

	for _, row := range rows {
		counts[row.CategoryID] = row
	}

	return counts, nil
}
