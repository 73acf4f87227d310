// Package event turns stored notifications into the envelopes other services consume
// from the notifications topic.
package event

import (
	"context"
	"encoding/json"
	"studio/infras/kafka"
	"studio/internal/domains/notification/model"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

type payload struct {
	NotificationID string          `json:"notification_id"`
	Title          string          `json:"title"`
	Message        string          `json:"message"`
	Data           json.RawMessage `json:"data"`
}

func NewEnvelope(producer string, notification model.Notification) (Envelope, error) {
	data := json.RawMessage(notification.Data)
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}

	encoded, err := json.Marshal(payload{
		NotificationID: notification.ID,
		Title:          notification.Title,
		Message:        notification.Message,
		Data:           data,
	})
	if err != nil {
		return Envelope{}, err //nolint:wrapcheck
	}

	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  notification.Type,
		OccurredAt: notification.CreatedAt,
		Producer:   producer,
		Payload:    encoded,
	}, nil
}

// Publish announces committed notifications. It never fails the caller: a notification
// is already durable in the database once it gets here.
func Publish(ctx context.Context, publisher kafka.Publisher, topic, producer string, notifications ...model.Notification) {
	messages := make([]kafka.Message, 0, len(notifications))

	for _, notification := range notifications {
		envelope, err := NewEnvelope(producer, notification)
		if err != nil {
			log.Error().Err(err).Str("notification_id", notification.ID).Msg("failed to build notification event")

			continue
		}

		messages = append(messages, kafka.Message{Key: notification.ID, Value: envelope})
	}

	if len(messages) == 0 {
		return
	}

	if err := publisher.Publish(ctx, topic, messages...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to publish notification events")
	}
}
