package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"studio/infras/kafka"
	kafkaMocks "studio/infras/kafka/mocks"
	"studio/internal/domains/notification/event"
	"studio/internal/domains/notification/model"
)

func newUserNotification(t *testing.T) model.Notification {
	t.Helper()

	notification, err := model.NewUserRegistered(model.NewUser{
		UserID:    "user-1",
		UserName:  "Jane Doe",
		UserEmail: "jane@studio.test",
	}, "guest", time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	return notification
}

func TestNewEnvelope(t *testing.T) {
	notification := newUserNotification(t)

	envelope, err := event.NewEnvelope("studio-api", notification)
	require.NoError(t, err)

	assert.NotEmpty(t, envelope.EventID)
	assert.Equal(t, model.TypeNewUser, envelope.EventType)
	assert.Equal(t, "studio-api", envelope.Producer)
	assert.Equal(t, notification.CreatedAt, envelope.OccurredAt)

	var payload struct {
		NotificationID string            `json:"notification_id"`
		Message        string            `json:"message"`
		Data           map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))

	assert.Equal(t, notification.ID, payload.NotificationID)
	assert.Equal(t, "Jane Doe (jane@studio.test) just created an account.", payload.Message)
	assert.Equal(t, "user-1", payload.Data["user_id"])
}

func TestPublish(t *testing.T) {
	t.Run("one message per notification keyed by id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		publisher := kafkaMocks.NewMockPublisher(ctrl)
		notification := newUserNotification(t)

		publisher.EXPECT().Publish(gomock.Any(), "studio.notifications", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				require.Len(t, messages, 1)
				assert.Equal(t, notification.ID, messages[0].Key)

				return nil
			})

		event.Publish(context.Background(), publisher, "studio.notifications", "studio-api", notification)
	})

	t.Run("publisher failure is swallowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		publisher := kafkaMocks.NewMockPublisher(ctrl)

		publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		assert.NotPanics(t, func() {
			event.Publish(context.Background(), publisher, "studio.notifications", "studio-api", newUserNotification(t))
		})
	})

	t.Run("nothing to publish", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		publisher := kafkaMocks.NewMockPublisher(ctrl)

		event.Publish(context.Background(), publisher, "studio.notifications", "studio-api")
	})
}
