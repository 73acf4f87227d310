package model

import (
	"fmt"

	"studio/shared/model"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "services"
	EntityName = "service"

	FieldID            = "id"
	FieldCategoryID    = "category_id"
	FieldName          = "name"
	FieldSlug          = "slug"
	FieldPrice         = "price"
	FieldDurationHours = "duration_hours"
	FieldIsAvailable   = "is_available"
	FieldImage         = "image"
	FieldCreatedAt     = "created_at"

	ConstraintSlugKey = "services_slug_key"

	categoriesTable = "categories"
)

// Service is a bookable studio package. Category columns are read through a join and never written.
type Service struct {
	ID            string          `db:"id"`
	CategoryID    string          `db:"category_id"`
	Name          string          `db:"name"`
	Slug          string          `db:"slug"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	DurationHours int             `db:"duration_hours"`
	Inclusions    pq.StringArray  `db:"inclusions"`
	IsAvailable   bool            `db:"is_available"`
	Image         *string         `db:"image"`
	CategoryName  *string         `column:"name" db:"category_name" table:"categories"`
	CategorySlug  *string         `column:"slug" db:"category_slug" table:"categories"`
	model.Metadata
}

func (Service) GetJoinQuery() string {
	return fmt.Sprintf("LEFT JOIN %s ON %s.id = %s.%s", categoriesTable, categoriesTable, TableName, FieldCategoryID)
}
