package service

import (
	"context"
	"fmt"

	"studio/infras/otel"
	"studio/internal/domains/dashboard/model"
	"studio/internal/domains/dashboard/model/dto"
	"studio/internal/domains/dashboard/repository"
	"studio/shared/constant"
	"studio/shared/principal"
	"studio/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Dashboard interface {
	Stats(ctx context.Context, actor principal.Principal) (dto.StatsResponse, error)
}

type serviceImpl struct {
	repo repository.Dashboard
	otel otel.Otel
}

func New(repo repository.Dashboard, otel otel.Otel) Dashboard {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// Stats is read straight from the database on every call; the figures move with every
// booking and payment write.
func (s *serviceImpl) Stats(ctx context.Context, actor principal.Principal) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".dashboard.Stats")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = actor.RequireAdmin(); err != nil {
		return res, err
	}

	totals, err := s.repo.Totals(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get dashboard totals")

		return res, fmt.Errorf("failed to get dashboard totals: %w", err)
	}

	revenue, err := s.repo.MonthlyRevenue(ctx, model.RevenueSince(timezone.Now()))
	if err != nil {
		log.Error().Err(err).Msg("failed to get monthly revenue")

		return res, fmt.Errorf("failed to get monthly revenue: %w", err)
	}

	recent, err := s.repo.RecentBookings(ctx, model.RecentBookingsLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to get recent bookings")

		return res, fmt.Errorf("failed to get recent bookings: %w", err)
	}

	popular, err := s.repo.PopularServices(ctx, model.PopularServicesLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to get popular services")

		return res, fmt.Errorf("failed to get popular services: %w", err)
	}

	res.FromTotals(totals)
	res.WithMonthlyRevenue(revenue)
	res.WithRecentBookings(recent)
	res.WithPopularServices(popular)

	return res, nil
}
