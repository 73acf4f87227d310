package scheduler_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"studio/config"
	"studio/infras/otel/mocks"
	notificationMocks "studio/internal/domains/notification/mocks"
	notificationService "studio/internal/domains/notification/service"
	"studio/transport/scheduler"
)

func newConfig(enable bool, spec string) *config.Config {
	cfg := &config.Config{}
	cfg.Scheduler.Enable = enable
	cfg.Scheduler.PruneSpec = spec
	cfg.App.NotificationRetentionDays = 30

	return cfg
}

func TestScheduler_PruneNotifications(t *testing.T) {
	tests := []struct {
		name    string
		deleted int64
		err     error
	}{
		{name: "deletes read notifications", deleted: 3},
		{name: "repository failure is swallowed", err: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := notificationMocks.NewMockNotification(ctrl)
			cfg := newConfig(true, "0 3 * * *")

			repo.EXPECT().DeleteReadBefore(gomock.Any(), gomock.Any()).Return(tt.deleted, tt.err)

			s := scheduler.New(cfg, notificationService.New(repo, cfg, mocks.NewOtel()), mocks.NewOtel())

			assert.NotPanics(t, s.PruneNotifications)
		})
	}
}

func TestScheduler_Start(t *testing.T) {
	t.Run("disabled scheduler registers nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cfg := newConfig(false, "not a spec")

		s := scheduler.New(cfg, notificationService.New(notificationMocks.NewMockNotification(ctrl), cfg, mocks.NewOtel()), mocks.NewOtel())

		require.NoError(t, s.Start())
	})

	t.Run("invalid spec is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cfg := newConfig(true, "not a spec")

		s := scheduler.New(cfg, notificationService.New(notificationMocks.NewMockNotification(ctrl), cfg, mocks.NewOtel()), mocks.NewOtel())

		require.Error(t, s.Start())
	})

	t.Run("valid spec starts and stops", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cfg := newConfig(true, "0 3 * * *")

		s := scheduler.New(cfg, notificationService.New(notificationMocks.NewMockNotification(ctrl), cfg, mocks.NewOtel()), mocks.NewOtel())

		require.NoError(t, s.Start())
		s.Stop()
	})
}
