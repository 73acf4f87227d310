package kafka_test

import (
	"context"
	"testing"

	"studio/config"
	"studio/infras/kafka"
	"studio/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:   "booking-1",
		Value: map[string]string{"event_type": "new_booking"},
	}

	out, err := msg.ToKafkaMessage("studio.notifications")
	require.NoError(t, err)

	assert.Equal(t, "studio.notifications", out.Topic)
	assert.Equal(t, []byte("booking-1"), out.Key)
	assert.JSONEq(t, `{"event_type":"new_booking"}`, string(out.Value))
}

func TestMessage_ToKafkaMessageRejectsUnencodableValue(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage("topic")

	assert.Error(t, err)
}

func TestNew_WithoutBrokersDropsMessages(t *testing.T) {
	publisher := kafka.New(&config.Config{}, mocks.NewOtel())

	assert.NoError(t, publisher.Publish(context.Background(), "studio.notifications", kafka.Message{Key: "k", Value: "v"}))
	assert.NoError(t, publisher.Close())
}
