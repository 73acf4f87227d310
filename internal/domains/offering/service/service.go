package service

import (
	"context"
	"fmt"

	"studio/config"
	"studio/infras/otel"
	"studio/infras/s3"
	"studio/internal/domains/offering/model"
	"studio/internal/domains/offering/model/dto"
	"studio/internal/domains/offering/repository"
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
	cacheGetService    = "service:get"
	cacheGetAllService = "service:gets"
	cacheCountService  = "service:count"

	// category pages embed their services
	cacheCategoryPrefix = "category:"
)

const (
	msgInvalidCategory    = "The selected category_id is invalid."
	msgServiceNameTaken   = "A service with this name already exists."
	msgServiceHasBookings = "Cannot delete a service that has bookings."
)

var sortableColumns = []string{model.FieldName, model.FieldPrice, model.FieldDurationHours, model.FieldCreatedAt}

type Service interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ListFilter) (dto.GetServicesResponse, error)
	Get(ctx context.Context, id string) (dto.ServiceResponse, error)
	Create(ctx context.Context, actor principal.Principal, req dto.CreateServiceRequest) (dto.ServiceResponse, error)
	Update(ctx context.Context, actor principal.Principal, id string, req dto.UpdateServiceRequest) (dto.ServiceResponse, error)
	Delete(ctx context.Context, actor principal.Principal, id string) error
	UploadImage(ctx context.Context, actor principal.Principal, id string, req gDto.UploadImageRequest) (dto.ServiceResponse, error)
}

type serviceImpl struct {
	repo  repository.Service
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Service, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Service {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ListFilter) (res dto.GetServicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".service.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params.Sanitize(model.TableName, sortableColumns...)
	group := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllService, params, group)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for services")

		return res, nil
	}

	total, err := s.count(ctx, params, group)
	if err != nil {
		return res, err
	}

	services, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get services")

		return res, fmt.Errorf("failed to get services: %w", err)
	}

	res.FromModels(services, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save services to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountService, params, filter)

	if cacheErr := s.cache.Get(ctx, cacheKey, &total); cacheErr == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return total, fmt.Errorf("failed to count services: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".service.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetService, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for service")

		return res, nil
	}

	service, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(service)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, actor principal.Principal, req dto.CreateServiceRequest) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".service.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	service := req.ToModel(actor.Actor())

	if err = s.repo.Insert(ctx, service); err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return res, mapped
		}

		log.Error().Err(err).Msg("failed to create service")

		return res, fmt.Errorf("failed to create service: %w", err)
	}

	s.invalidate(ctx, service.ID)

	return s.reload(ctx, service.ID)
}

func (s *serviceImpl) Update(ctx context.Context, actor principal.Principal, id string, req dto.UpdateServiceRequest) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".service.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	if _, err = s.find(ctx, id); err != nil {
		return res, err
	}

	req.Normalize()

	if err = s.repo.Update(ctx, shared.TransformFields(req, actor.Actor()), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return res, mapped
		}

		log.Error().Err(err).Str("service_id", id).Msg("failed to update service")

		return res, fmt.Errorf("failed to update service: %w", err)
	}

	s.invalidate(ctx, id)

	return s.reload(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, actor principal.Principal, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".service.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return err
	}

	service, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if gRepo.IsForeignKeyViolation(err) {
			return failure.Conflict(msgServiceHasBookings) // nolint:wrapcheck
		}

		log.Error().Err(err).Str("service_id", id).Msg("failed to delete service")

		return fmt.Errorf("failed to delete service: %w", err)
	}

	s.invalidate(ctx, id)
	s.deleteImage(ctx, service.Image)

	return nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, actor principal.Principal, id string, req gDto.UploadImageRequest) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".service.UploadImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	service, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	url, err := s.s3.Upload(ctx, constant.DirectoryServices, req.ImageFile, req.Image)
	if err != nil {
		log.Error().Err(err).Str("service_id", id).Msg("failed to upload service image")

		return res, fmt.Errorf("failed to upload service image: %w", err)
	}

	fields := map[string]any{
		model.FieldImage:         url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor.Actor(),
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("service_id", id).Msg("failed to store service image")
		s.deleteImage(ctx, &url)

		return res, fmt.Errorf("failed to store service image: %w", err)
	}

	s.invalidate(ctx, id)
	s.deleteImage(ctx, service.Image)

	return s.reload(ctx, id)
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Service, error) {
	service, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("service_id", id).Msg("failed to get service")

		return service, fmt.Errorf("failed to get service: %w", err)
	}

	if service.ID == constant.Empty {
		return service, failure.NotFound("service not found") // nolint:wrapcheck
	}

	return service, nil
}

func (s *serviceImpl) reload(ctx context.Context, id string) (res dto.ServiceResponse, err error) {
	service, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(service)

	return res, nil
}

func (s *serviceImpl) deleteImage(ctx context.Context, url *string) {
	if url == nil || *url == constant.Empty {
		return
	}

	go func() {
		if err := s.s3.DeleteByURL(context.WithoutCancel(ctx), *url); err != nil {
			log.Error().Err(err).Str("url", *url).Msg("failed to delete service image")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetService, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete service from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllService)
		shared.InvalidateCaches(c, s.cache, cacheCountService)
		shared.InvalidateCaches(c, s.cache, cacheCategoryPrefix)
	}()
}

func mapWriteError(err error) error {
	switch {
	case gRepo.IsUniqueViolation(err, model.ConstraintSlugKey):
		return failure.Conflict(msgServiceNameTaken) // nolint:wrapcheck
	case gRepo.IsForeignKeyViolation(err):
		return failure.Unprocessable(msgInvalidCategory) // nolint:wrapcheck
	default:
		return nil
	}
}
