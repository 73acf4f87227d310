package portfolio

import (
	"net/http"
	"strconv"

	"studio/infras/otel"
	"studio/internal/domains/portfolio/model/dto"
	"studio/internal/domains/portfolio/service"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/failure"
	"studio/shared/principal"
	"studio/shared/validator"
	"studio/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	formCategoryID  = "category_id"
	formTitle       = "title"
	formDescription = "description"
	formFeatured    = "featured"

	queryCategoryID = formCategoryID
	queryFeatured   = formFeatured
)

type Handler struct {
	service service.Portfolio
	otel    otel.Otel
}

func New(service service.Portfolio, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/portfolios", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetPortfolios)
		routerGroup.Get("/{id}", handler.GetPortfolioByID)
	})
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Route("/portfolios", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePortfolio)
		routerGroup.Put("/{id}", handler.UpdatePortfolio)
		routerGroup.Delete("/{id}", handler.DeletePortfolio)
	})
}

// GetPortfolios lists portfolio items.
// @Summary Get all portfolios
// @Tags Portfolio
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category_id query string false "Filter by category"
// @Param featured query bool false "Only featured items"
// @Success 200 {object} response.Data[dto.GetPortfoliosResponse] "List of portfolios"
// @Failure 500 {object} response.Error
// @Router /v1/portfolios [get]
func (handler *Handler) GetPortfolios(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPortfolios")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	featured, _ := strconv.ParseBool(r.URL.Query().Get(queryFeatured))

	filter := dto.ListFilter{
		CategoryID:   r.URL.Query().Get(queryCategoryID),
		FeaturedOnly: featured,
	}

	portfolios, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get portfolios")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, portfolios)
}

// GetPortfolioByID returns a single portfolio item.
// @Summary Get a portfolio by ID
// @Tags Portfolio
// @Produce json
// @Param id path string true "Portfolio ID"
// @Success 200 {object} response.Data[dto.PortfolioResponse] "Portfolio details"
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/portfolios/{id} [get]
func (handler *Handler) GetPortfolioByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPortfolioByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid portfolio ID")

		response.WithError(w, err)

		return
	}

	portfolio, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get portfolio by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, portfolio)
}

// CreatePortfolio uploads the image and stores a new portfolio item.
// @Summary Create a portfolio
// @Tags Admin Portfolio
// @Accept multipart/form-data
// @Produce json
// @Param category_id formData string true "Category ID"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param featured formData bool false "Featured"
// @Param file formData file true "Image file"
// @Success 201 {object} response.Data[dto.PortfolioResponse] "Portfolio created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/portfolios [post]
// @Security BearerAuth
func (handler *Handler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePortfolio")
	defer scope.End()

	header, file, err := gDto.FormImage(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, err)

		return
	}

	if file != nil {
		defer file.Close()
	}

	featured, err := formBool(r, formFeatured)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.CreatePortfolioRequest{
		CategoryID:  r.FormValue(formCategoryID),
		Title:       r.FormValue(formTitle),
		Description: formString(r, formDescription),
		Image:       header,
		ImageFile:   file,
	}

	if featured != nil {
		req.Featured = *featured
	}

	if err = validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request form")

		response.WithError(w, err)

		return
	}

	portfolio, err := handler.service.Create(ctx, principal.FromRequest(r), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create portfolio")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Portfolio created successfully")

	response.WithCreated(w, portfolio)
}

// UpdatePortfolio edits a portfolio item. A new image replaces the stored one.
// @Summary Update a portfolio
// @Tags Admin Portfolio
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Portfolio ID"
// @Param category_id formData string false "Category ID"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param featured formData bool false "Featured"
// @Param file formData file false "Image file"
// @Success 200 {object} response.Data[dto.PortfolioResponse] "Portfolio updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/portfolios/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePortfolio")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid portfolio ID")

		response.WithError(w, err)

		return
	}

	header, file, err := gDto.FormImage(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, err)

		return
	}

	if file != nil {
		defer file.Close()
	}

	featured, err := formBool(r, formFeatured)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdatePortfolioRequest{
		CategoryID:  r.FormValue(formCategoryID),
		Title:       r.FormValue(formTitle),
		Description: formString(r, formDescription),
		Featured:    featured,
		Image:       header,
		ImageFile:   file,
	}

	if err = validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request form")

		response.WithError(w, err)

		return
	}

	portfolio, err := handler.service.Update(ctx, principal.FromRequest(r), id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update portfolio")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Portfolio updated successfully")

	response.WithJSON(w, http.StatusOK, portfolio)
}

// DeletePortfolio removes a portfolio item and its image.
// @Summary Delete a portfolio
// @Tags Admin Portfolio
// @Produce json
// @Param id path string true "Portfolio ID"
// @Success 200 {object} response.Message "Portfolio deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/admin/portfolios/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePortfolio")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	if err := validator.ValidateID(id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid portfolio ID")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, principal.FromRequest(r), id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete portfolio")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Portfolio deleted successfully")

	response.WithMessage(w, http.StatusOK, "Portfolio deleted successfully")
}

// formString is nil when the field is absent from the form.
func formString(r *http.Request, key string) *string {
	if _, ok := r.MultipartForm.Value[key]; !ok {
		return nil
	}

	value := r.FormValue(key)

	return &value
}

func formBool(r *http.Request, key string) (*bool, error) {
	raw := r.FormValue(key)
	if raw == constant.Empty {
		return nil, nil //nolint:nilnil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, failure.Unprocessable("The " + key + " field must be true or false.")
	}

	return &value, nil
}
