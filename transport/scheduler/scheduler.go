package scheduler

import (
	"context"
	"fmt"

	"studio/config"
	"studio/infras/otel"
	notificationService "studio/internal/domains/notification/service"
	"studio/shared/constant"
	"studio/shared/timezone"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the periodic maintenance jobs of the API process.
type Scheduler struct {
	cron         *cron.Cron
	cfg          *config.Config
	notification notificationService.Notification
	otel         otel.Otel
}

func New(cfg *config.Config, notification notificationService.Notification, otel otel.Otel) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(timezone.GetLocation()),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		cfg:          cfg,
		notification: notification,
		otel:         otel,
	}
}

// Start registers the jobs and starts the cron loop in the background.
func (s *Scheduler) Start() error {
	if !s.cfg.Scheduler.Enable {
		log.Info().Msg("Scheduler disabled")

		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.Scheduler.PruneSpec, s.PruneNotifications); err != nil {
		return fmt.Errorf("failed to schedule notification pruning: %w", err)
	}

	s.cron.Start()

	log.Info().Str("prune_spec", s.cfg.Scheduler.PruneSpec).Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")

	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) PruneNotifications() {
	ctx, scope := s.otel.NewScope(context.Background(), constant.OtelSchedulerScope, constant.OtelSchedulerScope+".PruneNotifications")
	defer scope.End()

	deleted, err := s.notification.PruneRead(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to prune read notifications")

		return
	}

	log.Debug().Int64("deleted", deleted).Msg("notification pruning finished")
}
