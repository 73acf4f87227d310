package service

import (
	"context"
	"fmt"
	"studio/config"
	"studio/infras/otel"
	"studio/internal/domains/notification/model"
	"studio/internal/domains/notification/model/dto"
	"studio/internal/domains/notification/repository"
	"studio/shared"
	"studio/shared/constant"
	gDto "studio/shared/dto"
	"studio/shared/failure"
	"studio/shared/principal"
	"studio/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const hoursPerDay = 24

type Notification interface {
	GetLatest(ctx context.Context, actor principal.Principal) (dto.GetNotificationsResponse, error)
	UnreadCount(ctx context.Context, actor principal.Principal) (dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, actor principal.Principal, id string) error
	MarkAllRead(ctx context.Context, actor principal.Principal) error
	PruneRead(ctx context.Context) (int64, error)
}

type serviceImpl struct {
	repo repository.Notification
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.Notification, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: otel,
	}
}

func unreadFilter() gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				ArgName:  "is_read",
				Field:    model.FieldRead,
				Value:    false,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) GetLatest(ctx context.Context, actor principal.Principal) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.GetLatest")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	params := gDto.QueryParams{
		Limit:   model.LatestLimit,
		SortBy:  model.TableName + "." + model.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}

	models, err := s.repo.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models)

	return res, nil
}

func (s *serviceImpl) UnreadCount(ctx context.Context, actor principal.Principal) (res dto.UnreadCountResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.UnreadCount")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	res.Count, err = s.repo.Count(ctx, unreadFilter())
	if err != nil {
		log.Error().Err(err).Msg("failed to count unread notifications")

		return res, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, actor principal.Principal, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.MarkRead")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	notification, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notification")

		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.ID == constant.Empty {
		return failure.NotFound("notification not found") // nolint:wrapcheck
	}

	if notification.Read {
		return nil
	}

	if err = s.repo.Update(ctx, s.readFields(actor), filter); err != nil {
		log.Error().Err(err).Str("notification_id", id).Msg("failed to mark notification as read")

		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}

func (s *serviceImpl) MarkAllRead(ctx context.Context, actor principal.Principal) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.MarkAllRead")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return err
	}

	if err = s.repo.Update(ctx, s.readFields(actor), unreadFilter()); err != nil {
		log.Error().Err(err).Msg("failed to mark all notifications as read")

		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	return nil
}

// PruneRead deletes read notifications older than the configured retention window.
func (s *serviceImpl) PruneRead(ctx context.Context) (deleted int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.PruneRead")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	retention := time.Duration(s.cfg.App.NotificationRetentionDays) * hoursPerDay * time.Hour
	if retention <= 0 {
		return 0, nil
	}

	cutoff := timezone.Now().Add(-retention)

	deleted, err = s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to prune notifications")

		return 0, fmt.Errorf("failed to prune notifications: %w", err)
	}

	log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("pruned read notifications")

	return deleted, nil
}

func (s *serviceImpl) readFields(actor principal.Principal) map[string]any {
	return map[string]any{
		model.FieldRead:          true,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor.Actor(),
	}
}
