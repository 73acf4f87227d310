package repository

//go:generate go run go.uber.org/mock/mockgen -source=./addon.go -destination=../mocks/addon_mock.go -package=mocks

import (
	"context"

	"studio/infras/otel"
	"studio/infras/postgres"
	"studio/internal/domains/booking/model"
	gDto "studio/shared/dto"
	gRepo "studio/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Addon interface {
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.Addon) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Addon, error)
}

type addonRepositoryImpl struct {
	gRepo.Repository[model.Addon]
}

func NewAddon(db *postgres.Connection, otel otel.Otel) Addon {
	return &addonRepositoryImpl{
		Repository: gRepo.NewRepository[model.Addon](model.AddonEntityName, model.AddonTableName, model.FieldID, db, otel),
	}
}
