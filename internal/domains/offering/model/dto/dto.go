package dto

import (
	"studio/internal/domains/offering/model"
	"studio/shared"
	gDto "studio/shared/dto"
	gModel "studio/shared/model"
	"studio/shared/timezone"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type CreateServiceRequest struct {
	CategoryID    string           `json:"category_id"    validate:"required,uuid"`
	Name          string           `json:"name"           validate:"required,max=255"`
	Description   string           `json:"description"    validate:"required"`
	Price         *decimal.Decimal `json:"price"          validate:"required,gte=0"       swaggertype:"number"`
	DurationHours int              `json:"duration_hours" validate:"required,gte=1"`
	Inclusions    []string         `json:"inclusions"     validate:"omitempty,dive,required"`
	IsAvailable   *bool            `json:"is_available"`
}

func (r *CreateServiceRequest) ToModel(actor string) model.Service {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}

	price := decimal.Zero
	if r.Price != nil {
		price = r.Price.Round(2)
	}

	inclusions := pq.StringArray{}
	if r.Inclusions != nil {
		inclusions = r.Inclusions
	}

	return model.Service{
		ID:            uuid.NewString(),
		CategoryID:    r.CategoryID,
		Name:          r.Name,
		Slug:          slug.Make(r.Name),
		Description:   r.Description,
		Price:         price,
		DurationHours: r.DurationHours,
		Inclusions:    inclusions,
		IsAvailable:   available,
		Metadata:      gModel.NewMetadata(actor, timezone.Now()),
	}
}

// UpdateServiceRequest is a partial edit. Slug is derived from Name and never read from the body.
type UpdateServiceRequest struct {
	CategoryID    string           `db:"category_id"    json:"category_id"    validate:"omitempty,uuid"`
	Name          string           `db:"name"           json:"name"           validate:"omitempty,max=255"`
	Slug          string           `db:"slug"           json:"-"`
	Description   string           `db:"description"    json:"description"`
	Price         *decimal.Decimal `db:"price"          json:"price"          validate:"omitnil,gte=0" swaggertype:"number"`
	DurationHours int              `db:"duration_hours" json:"duration_hours" validate:"omitempty,gte=1"`
	Inclusions    pq.StringArray   `db:"inclusions"     json:"inclusions"     validate:"omitempty,dive,required" swaggertype:"array,string"`
	IsAvailable   *bool            `db:"is_available"   json:"is_available"`
}

// Normalize derives the slug and rounds the price before the request is turned into columns.
func (r *UpdateServiceRequest) Normalize() {
	if r.Name != "" {
		r.Slug = slug.Make(r.Name)
	}

	if r.Price != nil {
		price := r.Price.Round(2)
		r.Price = &price
	}
}

type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ServiceResponse struct {
	ID            string           `json:"id"`
	CategoryID    string           `json:"category_id"`
	Name          string           `json:"name"`
	Slug          string           `json:"slug"`
	Description   string           `json:"description"`
	Price         string           `json:"price"`
	DurationHours int              `json:"duration_hours"`
	Inclusions    []string         `json:"inclusions"`
	IsAvailable   bool             `json:"is_available"`
	Image         *string          `json:"image"`
	Category      *CategorySummary `json:"category,omitempty"`
	gDto.Metadata
}

func (r *ServiceResponse) FromModel(mod model.Service) {
	r.ID = mod.ID
	r.CategoryID = mod.CategoryID
	r.Name = mod.Name
	r.Slug = mod.Slug
	r.Description = mod.Description
	r.Price = mod.Price.StringFixed(2)
	r.DurationHours = mod.DurationHours
	r.IsAvailable = mod.IsAvailable
	r.Image = mod.Image

	r.Inclusions = []string(mod.Inclusions)
	if r.Inclusions == nil {
		r.Inclusions = []string{}
	}

	r.Category = nil
	if mod.CategoryName != nil {
		r.Category = &CategorySummary{ID: mod.CategoryID, Name: *mod.CategoryName}

		if mod.CategorySlug != nil {
			r.Category.Slug = *mod.CategorySlug
		}
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetServicesResponse struct {
	Services  []ServiceResponse `json:"services"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetServicesResponse) FromModels(models []model.Service, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Services = make([]ServiceResponse, len(models))
	for i, mod := range models {
		r.Services[i].FromModel(mod)
	}
}

// ListFilter carries the optional query string filters of the public listing.
type ListFilter struct {
	CategoryID    string
	AvailableOnly bool
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

	if f.AvailableOnly {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldIsAvailable,
			Value:    true,
			Operator: gDto.FilterOperatorEq,
			Table:    model.TableName,
		})
	}

	return group
}

func (r *UpdateServiceRequest) IsEmpty() bool {
	return r.CategoryID == "" && r.Name == "" && r.Description == "" && r.Price == nil &&
		r.DurationHours == 0 && r.Inclusions == nil && r.IsAvailable == nil
}
