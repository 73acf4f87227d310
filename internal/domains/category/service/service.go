package service

import (
	"context"
	"fmt"

	"studio/config"
	"studio/infras/otel"
	"studio/infras/s3"
	"studio/internal/domains/category/model"
	"studio/internal/domains/category/model/dto"
	"studio/internal/domains/category/repository"
	offeringModel "studio/internal/domains/offering/model"
	offeringRepo "studio/internal/domains/offering/repository"
	portfolioModel "studio/internal/domains/portfolio/model"
	portfolioRepo "studio/internal/domains/portfolio/repository"
	"studio/shared"
	"studio/shared/cache"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/failure"
	"studio/shared/principal"
	gRepo "studio/shared/repository"
	"studio/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetCategory    = "category:get"
	cacheGetAllCategory = "category:gets"
)

const (
	msgCategoryNameTaken = "A category with this name already exists."
	msgCategoryInUse     = "Cannot delete a category that still has services or portfolio items."
)

var sortableColumns = []string{model.FieldName, model.FieldCreatedAt}

type Category interface {
	GetAll(ctx context.Context, params gDto.QueryParams) (dto.GetCategoriesResponse, error)
	Get(ctx context.Context, id string) (dto.CategoryResponse, error)
	Create(ctx context.Context, actor principal.Principal, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	Update(ctx context.Context, actor principal.Principal, id string, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error)
	Delete(ctx context.Context, actor principal.Principal, id string) error
	UploadImage(ctx context.Context, actor principal.Principal, id string, req gDto.UploadImageRequest) (dto.CategoryResponse, error)
}

type serviceImpl struct {
	repo          repository.Category
	serviceRepo   offeringRepo.Service
	portfolioRepo portfolioRepo.Portfolio
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
	s3            s3.S3
}

func New(
	repo repository.Category,
	serviceRepo offeringRepo.Service,
	portfolioRepo portfolioRepo.Portfolio,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) Category {
	return &serviceImpl{
		repo:          repo,
		serviceRepo:   serviceRepo,
		portfolioRepo: portfolioRepo,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
		s3:            s3,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams) (res dto.GetCategoriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".category.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.Sanitize(model.TableName, sortableColumns...)
	filter := gDto.FilterGroup{}
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCategory, params, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for categories")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count categories")

		return res, fmt.Errorf("failed to count categories: %w", err)
	}

	categories, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get categories")

		return res, fmt.Errorf("failed to get categories: %w", err)
	}

	ids := make([]string, len(categories))
	for i, category := range categories {
		ids[i] = category.ID
	}

	counts, err := s.repo.Counts(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("failed to count category contents")

		return res, fmt.Errorf("failed to count category contents: %w", err)
	}

	res.FromModels(categories, counts, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save categories to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".category.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetCategory, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for category")

		return res, nil
	}

	category, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	services, err := s.serviceRepo.GetAll(ctx,
		gDto.QueryParams{SortBy: offeringModel.TableName + "." + offeringModel.FieldName, SortDir: gDto.SortDirAsc},
		shared.FilterBy(offeringModel.FieldCategoryID, id, offeringModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("category_id", id).Msg("failed to get category services")

		return res, fmt.Errorf("failed to get category services: %w", err)
	}

	portfolios, err := s.portfolioRepo.GetAll(ctx,
		gDto.QueryParams{SortBy: portfolioModel.TableName + "." + portfolioModel.FieldCreatedAt, SortDir: gDto.SortDirDesc},
		shared.FilterBy(portfolioModel.FieldCategoryID, id, portfolioModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("category_id", id).Msg("failed to get category portfolios")

		return res, fmt.Errorf("failed to get category portfolios: %w", err)
	}

	res.FromModel(category)
	res.WithCatalog(services, portfolios)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save category to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, actor principal.Principal, req dto.CreateCategoryRequest) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".category.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	category := req.ToModel(actor.Actor())

	if err = s.repo.Insert(ctx, category); err != nil {
		if gRepo.IsUniqueViolation(err, model.ConstraintSlugKey) {
			return res, failure.Conflict(msgCategoryNameTaken) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create category")

		return res, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidate(ctx)

	res.FromModel(category)
	res.WithCounts(model.Counts{CategoryID: category.ID})

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, actor principal.Principal, id string, req dto.UpdateCategoryRequest) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".category.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	if req == (dto.UpdateCategoryRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	if _, err = s.find(ctx, id); err != nil {
		return res, err
	}

	req.Normalize()

	if err = s.repo.Update(ctx, shared.TransformFields(req, actor.Actor()), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if gRepo.IsUniqueViolation(err, model.ConstraintSlugKey) {
			return res, failure.Conflict(msgCategoryNameTaken) // nolint:wrapcheck
		}

		log.Error().Err(err).Str("category_id", id).Msg("failed to update category")

		return res, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidate(ctx)

	category, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(category)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, actor principal.Principal, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".category.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return err
	}

	category, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if gRepo.IsForeignKeyViolation(err) {
			return failure.Conflict(msgCategoryInUse) // nolint:wrapcheck
		}

		log.Error().Err(err).Str("category_id", id).Msg("failed to delete category")

		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidate(ctx)
	s.deleteImage(ctx, category.Image)

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, actor principal.Principal, id string, req gDto.UploadImageRequest) (res dto.CategoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".category.UploadImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	category, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	url, err := s.s3.Upload(ctx, constant.DirectoryCategories, req.ImageFile, req.Image)
	if err != nil {
		log.Error().Err(err).Str("category_id", id).Msg("failed to upload category image")

		return res, fmt.Errorf("failed to upload category image: %w", err)
	}

	fields := map[string]any{
		model.FieldImage:         url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor.Actor(),
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("category_id", id).Msg("failed to store category image")
		s.deleteImage(ctx, &url)

		return res, fmt.Errorf("failed to store category image: %w", err)
	}

	s.invalidate(ctx)
	s.deleteImage(ctx, category.Image)

	category.Image = &url
	res.FromModel(category)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Category, error) {
	category, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("category_id", id).Msg("failed to get category")

		return category, fmt.Errorf("failed to get category: %w", err)
	}

	if category.ID == constant.Empty {
		return category, failure.NotFound("category not found") // nolint:wrapcheck
	}

	return category, nil
}

func (s *serviceImpl) deleteImage(ctx context.Context, url *string) {
	if url == nil || *url == constant.Empty {
		return
	}

	go func() {
		if err := s.s3.DeleteByURL(context.WithoutCancel(ctx), *url); err != nil {
			log.Error().Err(err).Str("url", *url).Msg("failed to delete category image")
		}
	}()
}

// invalidate drops every category entry. Single entries embed counts and child lists,
// so there is no narrower key to target.
func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetCategory)
		shared.InvalidateCaches(c, s.cache, cacheGetAllCategory)
	}()
}
