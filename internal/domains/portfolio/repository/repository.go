package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"studio/infras/otel"
	"studio/infras/postgres"
	"studio/internal/domains/portfolio/model"
	gDto "studio/shared/dto"
	gRepo "studio/shared/repository"
)

type Portfolio interface {
	Insert(ctx context.Context, model model.Portfolio) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Portfolio, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Portfolio, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Portfolio]
}

func New(db *postgres.Connection, otel otel.Otel) Portfolio {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Portfolio](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
