package model

import (
	"fmt"

	"studio/shared/model"
)

const (
	TableName  = "portfolios"
	EntityName = "portfolio"

	FieldID          = "id"
	FieldCategoryID  = "category_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldFeatured    = "featured"
	FieldCreatedAt   = "created_at"

	categoriesTable = "categories"
)

type Portfolio struct {
	ID           string  `db:"id"`
	CategoryID   string  `db:"category_id"`
	Title        string  `db:"title"`
	Description  *string `db:"description"`
	Image        string  `db:"image"`
	Featured     bool    `db:"featured"`
	CategoryName *string `column:"name" db:"category_name" table:"categories"`
	CategorySlug *string `column:"slug" db:"category_slug" table:"categories"`
	model.Metadata
}

func (Portfolio) GetJoinQuery() string {
	return fmt.Sprintf("LEFT JOIN %s ON %s.id = %s.%s", categoriesTable, categoriesTable, TableName, FieldCategoryID)
}
