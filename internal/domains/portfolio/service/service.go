package service

import (
	"context"
	"fmt"

	"studio/config"
	"studio/infras/otel"
	"studio/infras/s3"
	"studio/internal/domains/portfolio/model"
	"studio/internal/domains/portfolio/model/dto"
	"studio/internal/domains/portfolio/repository"
	"studio/shared"
	"studio/shared/cache"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/failure"
	"studio/shared/principal"
	gRepo "studio/shared/repository"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetPortfolio    = "portfolio:get"
	cacheGetAllPortfolio = "portfolio:gets"
	cacheCountPortfolio  = "portfolio:count"

	cacheCategoryPrefix = "category:"
)

const msgInvalidCategory = "The selected category_id is invalid."

var sortableColumns = []string{model.FieldTitle, model.FieldCreatedAt}

type Portfolio interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ListFilter) (dto.GetPortfoliosResponse, error)
	Get(ctx context.Context, id string) (dto.PortfolioResponse, error)
	Create(ctx context.Context, actor principal.Principal, req dto.CreatePortfolioRequest) (dto.PortfolioResponse, error)
	Update(ctx context.Context, actor principal.Principal, id string, req dto.UpdatePortfolioRequest) (dto.PortfolioResponse, error)
	Delete(ctx context.Context, actor principal.Principal, id string) error
}

type serviceImpl struct {
	repo  repository.Portfolio
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Portfolio, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Portfolio {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ListFilter) (res dto.GetPortfoliosResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".portfolio.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.Sanitize(model.TableName, sortableColumns...)
	group := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPortfolio, params, group)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for portfolios")

		return res, nil
	}

	total, err := s.count(ctx, params, group)
	if err != nil {
		return res, err
	}

	portfolios, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get portfolios")

		return res, fmt.Errorf("failed to get portfolios: %w", err)
	}

	res.FromModels(portfolios, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save portfolios to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPortfolio, params, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &total); cacheErr == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count portfolios")

		return total, fmt.Errorf("failed to count portfolios: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save portfolio count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PortfolioResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".portfolio.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetPortfolio, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for portfolio")

		return res, nil
	}

	portfolio, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(portfolio)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save portfolio to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, actor principal.Principal, req dto.CreatePortfolioRequest) (res dto.PortfolioResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".portfolio.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	url, err := s.s3.Upload(ctx, constant.DirectoryPortfolios, req.ImageFile, req.Image)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload portfolio image")

		return res, fmt.Errorf("failed to upload portfolio image: %w", err)
	}

	portfolio := req.ToModel(actor.Actor(), url)

	if err = s.repo.Insert(ctx, portfolio); err != nil {
		s.deleteImage(ctx, url)

		if gRepo.IsForeignKeyViolation(err) {
			return res, failure.Unprocessable(msgInvalidCategory) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create portfolio")

		return res, fmt.Errorf("failed to create portfolio: %w", err)
	}

	s.invalidate(ctx, portfolio.ID)

	return s.reload(ctx, portfolio.ID)
}

func (s *serviceImpl) Update(ctx context.Context, actor principal.Principal, id string, req dto.UpdatePortfolioRequest) (res dto.PortfolioResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".portfolio.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	fields := shared.TransformFields(req, actor.Actor())

	newImage := constant.Empty
	if req.Image != nil {
		newImage, err = s.s3.Upload(ctx, constant.DirectoryPortfolios, req.ImageFile, req.Image)
		if err != nil {
			log.Error().Err(err).Str("portfolio_id", id).Msg("failed to upload portfolio image")

			return res, fmt.Errorf("failed to upload portfolio image: %w", err)
		}

		fields[model.FieldImage] = newImage
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		s.deleteImage(ctx, newImage)

		if gRepo.IsForeignKeyViolation(err) {
			return res, failure.Unprocessable(msgInvalidCategory) // nolint:wrapcheck
		}

		log.Error().Err(err).Str("portfolio_id", id).Msg("failed to update portfolio")

		return res, fmt.Errorf("failed to update portfolio: %w", err)
	}

	s.invalidate(ctx, id)

	if newImage != constant.Empty {
		s.deleteImage(ctx, current.Image)
	}

	return s.reload(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, actor principal.Principal, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".portfolio.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return err
	}

	portfolio, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("portfolio_id", id).Msg("failed to delete portfolio")

		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	s.invalidate(ctx, id)
	s.deleteImage(ctx, portfolio.Image)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Portfolio, error) {
	portfolio, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("portfolio_id", id).Msg("failed to get portfolio")

		return portfolio, fmt.Errorf("failed to get portfolio: %w", err)
	}

	if portfolio.ID == constant.Empty {
		return portfolio, failure.NotFound("portfolio not found") // nolint:wrapcheck
	}

	return portfolio, nil
}

func (s *serviceImpl) reload(ctx context.Context, id string) (res dto.PortfolioResponse, err error) {
	portfolio, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(portfolio)

	return res, nil
}

func (s *serviceImpl) deleteImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	go func() {
		if err := s.s3.DeleteByURL(context.WithoutCancel(ctx), url); err != nil {
			log.Error().Err(err).Str("url", url).Msg("failed to delete portfolio image")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPortfolio, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete portfolio from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllPortfolio)
		shared.InvalidateCaches(c, s.cache, cacheCountPortfolio)
		shared.InvalidateCaches(c, s.cache, cacheCategoryPrefix)
	}()
}
