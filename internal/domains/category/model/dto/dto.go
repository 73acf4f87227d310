package dto

import (
	"studio/internal/domains/category/model"
	offeringModel "studio/internal/domains/offering/model"
	offeringDto "studio/internal/domains/offering/model/dto"
	portfolioModel "studio/internal/domains/portfolio/model"
	portfolioDto "studio/internal/domains/portfolio/model/dto"
	"studio/shared"
	gDto "studio/shared/dto"
	gModel "studio/shared/model"
	"studio/shared/timezone"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type CreateCategoryRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description *string `json:"description"`
}

func (r *CreateCategoryRequest) ToModel(actor string) model.Category {
	return model.Category{
		ID:          uuid.NewString(),
		Name:        r.Name,
		Slug:        slug.Make(r.Name),
		Description: r.Description,
		Metadata:    gModel.NewMetadata(actor, timezone.Now()),
	}
}

type UpdateCategoryRequest struct {
	Name        string  `db:"name"        json:"name"        validate:"omitempty,max=255"`
	Slug        string  `db:"slug"        json:"-"`
	Description *string `db:"description" json:"description"`
}

func (r *UpdateCategoryRequest) Normalize() {
	if r.Name != "" {
		r.Slug = slug.Make(r.Name)
	}
}

type CategoryResponse struct {
	ID              string                           `json:"id"`
	Name            string                           `json:"name"`
	Slug            string                           `json:"slug"`
	Description     *string                          `json:"description"`
	Image           *string                          `json:"image"`
	ServicesCount   *int                             `json:"services_count,omitempty"`
	PortfoliosCount *int                             `json:"portfolios_count,omitempty"`
	Services        []offeringDto.ServiceResponse    `json:"services,omitempty"`
	Portfolios      []portfolioDto.PortfolioResponse `json:"portfolios,omitempty"`
	gDto.Metadata
}

func (r *CategoryResponse) FromModel(mod model.Category) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Slug = mod.Slug
	r.Description = mod.Description
	r.Image = mod.Image
	r.Metadata.FromModel(mod.Metadata)
}

func (r *CategoryResponse) WithCounts(counts model.Counts) {
	r.ServicesCount = &counts.Services
	r.PortfoliosCount = &counts.Portfolios
}

// WithCatalog attaches the category's services and portfolio items. Both are always
// present in the payload, possibly empty.
func (r *CategoryResponse) WithCatalog(services []offeringModel.Service, portfolios []portfolioModel.Portfolio) {
	r.Services = make([]offeringDto.ServiceResponse, len(services))
	for i, mod := range services {
		r.Services[i].FromModel(mod)
	}

	r.Portfolios = make([]portfolioDto.PortfolioResponse, len(portfolios))
	for i, mod := range portfolios {
		r.Portfolios[i].FromModel(mod)
	}

	r.WithCounts(model.Counts{CategoryID: r.ID, Services: len(services), Portfolios: len(portfolios)})
}

type GetCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetCategoriesResponse) FromModels(models []model.Category, counts map[string]model.Counts, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Categories = make([]CategoryResponse, len(models))
	for i, mod := range models {
		r.Categories[i].FromModel(mod)
		r.Categories[i].WithCounts(counts[mod.ID])
	}
}
