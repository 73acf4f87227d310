package repository

import (
	"studio/infras/otel/mocks"
	"studio/shared/dto"
	"studio/shared/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	CategoryName string `db:"category_name" table:"categories" column:"name"`
	Ignored      string `db:"-"`
	model.Metadata
}

func (sampleRow) GetJoinQuery() string {
	return "LEFT JOIN categories ON categories.id = samples.category_id"
}

func TestNewRepository_Columns(t *testing.T) {
	repo := NewRepository[sampleRow]("sample", "samples", "id", nil, mocks.NewOtel())

	assert.Equal(t, []string{"id", "name", "created_at", "modified_at", "created_by", "modified_by"}, repo.InsertColumns)
	assert.Equal(t,
		"INSERT INTO samples (id, name, created_at, modified_at, created_by, modified_by) VALUES (:id, :name, :created_at, :modified_at, :created_by, :modified_by)",
		repo.insertQuery)
	assert.Equal(t, "LEFT JOIN categories ON categories.id = samples.category_id", repo.join)
	assert.Equal(t,
		"samples.id, samples.name, categories.name AS category_name, samples.created_at, samples.modified_at, samples.created_by, samples.modified_by",
		repo.selectColumns())
	assert.Equal(t, "samples.id, samples.name, categories.name AS category_name", repo.selectColumns("id", "name"))
}

func TestRepository_BuildWhereClause(t *testing.T) {
	repo := NewRepository[sampleRow]("sample", "samples", "id", nil, mocks.NewOtel())

	where, args := repo.BuildWhereClause(dto.FilterGroup{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = repo.BuildWhereClause(dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "id", Value: "s-1", Operator: dto.FilterOperatorEq, Table: "samples"},
	}})
	assert.Equal(t, " WHERE (samples.id = :id) ", where)
	assert.Equal(t, map[string]any{"id": "s-1"}, args)
}
