package dto

import (
	"mime/multipart"

	"studio/internal/domains/portfolio/model"
	"studio/shared"
	gDto "studio/shared/dto"
	gModel "studio/shared/model"
	"studio/shared/timezone"

	"github.com/google/uuid"
)

// CreatePortfolioRequest is read from a multipart form. The image part is mandatory.
type CreatePortfolioRequest struct {
	CategoryID  string                `json:"category_id" validate:"required,uuid"`
	Title       string                `json:"title"       validate:"required,max=255"`
	Description *string               `json:"description"`
	Featured    bool                  `json:"featured"`
	Image       *multipart.FileHeader `json:"image"       swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg image/gif,maxfilesize=5"`
	ImageFile   multipart.File        `json:"-"`
}

func (r *CreatePortfolioRequest) ToModel(actor, imageURL string) model.Portfolio {
	return model.Portfolio{
		ID:          uuid.NewString(),
		CategoryID:  r.CategoryID,
		Title:       r.Title,
		Description: r.Description,
		Image:       imageURL,
		Featured:    r.Featured,
		Metadata:    gModel.NewMetadata(actor, timezone.Now()),
	}
}

// UpdatePortfolioRequest edits the columns that are present. A new image replaces the stored one.
type UpdatePortfolioRequest struct {
	CategoryID  string                `db:"category_id" json:"category_id" validate:"omitempty,uuid"`
	Title       string                `db:"title"       json:"title"       validate:"omitempty,max=255"`
	Description *string               `db:"description" json:"description"`
	Featured    *bool                 `db:"featured"    json:"featured"`
	Image       *multipart.FileHeader `json:"image"       swaggerignore:"true" validate:"omitnil,mimetypes=image/png image/jpg image/jpeg image/gif,maxfilesize=5"`
	ImageFile   multipart.File        `json:"-"`
}

func (r *UpdatePortfolioRequest) IsEmpty() bool {
	return r.CategoryID == "" && r.Title == "" && r.Description == nil && r.Featured == nil && r.Image == nil
}

type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PortfolioResponse struct {
	ID          string           `json:"id"`
	CategoryID  string           `json:"category_id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Image       string           `json:"image"`
	Featured    bool             `json:"featured"`
	Category    *CategorySummary `json:"category,omitempty"`
	gDto.Metadata
}

func (r *PortfolioResponse) FromModel(mod model.Portfolio) {
	r.ID = mod.ID
	r.CategoryID = mod.CategoryID
	r.Title = mod.Title
	r.Description = mod.Description
	r.Image = mod.Image
	r.Featured = mod.Featured

	r.Category = nil
	if mod.CategoryName != nil {
		r.Category = &CategorySummary{ID: mod.CategoryID, Name: *mod.CategoryName}

		if mod.CategorySlug != nil {
			r.Category.Slug = *mod.CategorySlug
		}
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetPortfoliosResponse struct {
	Portfolios []PortfolioResponse `json:"portfolios"`
	TotalPage  int                 `json:"total_page"`
	TotalData  int                 `json:"total_data"`
}

func (r *GetPortfoliosResponse) FromModels(models []model.Portfolio, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Portfolios = make([]PortfolioResponse, len(models))
	for i, mod := range models {
		r.Portfolios[i].FromModel(mod)
	}
}

type ListFilter struct {
	CategoryID   string
	FeaturedOnly bool
}

func (f ListFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.CategoryID != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldCategoryID,
			Value:    f.CategoryID,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	if f.FeaturedOnly {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldFeatured,
			Value:    true,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return group
}
