package model

import "studio/shared/model"

const (
	TableName  = "categories"
	EntityName = "category"

	FieldID          = "id"
	FieldName        = "name"
	FieldSlug        = "slug"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldCreatedAt   = "created_at"

	ConstraintSlugKey = "categories_slug_key"
)

type Category struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Slug        string  `db:"slug"`
	Description *string `db:"description"`
	Image       *string `db:"image"`
	model.Metadata
}

// Counts is the number of services and portfolio items filed under a category.
type Counts struct {
	CategoryID string `db:"category_id"`
	Services   int    `db:"services_count"`
	Portfolios int    `db:"portfolios_count"`
}
