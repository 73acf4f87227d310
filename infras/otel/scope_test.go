package otel_test

import (
	"context"
	"errors"
	"studio/infras/otel/mocks"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func TestScope(t *testing.T) {
	tracer, recorder := mocks.NewRecorder()

	_, scope := tracer.NewScope(context.Background(), "service", "service.booking.Create")
	scope.SetAttributes(map[string]any{
		"booking.reference": "BK-1",
		"booking.addons":    2,
		"booking.online":    true,
		"booking.total":     2240.5,
		"booking.slots":     []string{"09:00", "10:00"},
		"booking.status":    struct{ Name string }{Name: "pending"},
		"booking.duration":  90 * time.Minute,
	})
	scope.AddEvent("slot.locked")
	scope.TraceIfError(nil)
	scope.TraceError(errors.New("slot already booked"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "service.booking.Create", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "slot already booked", span.Status().Description)

	attributes := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attributes[kv.Key] = kv.Value
	}

	assert.Equal(t, "BK-1", attributes["booking.reference"].AsString())
	assert.Equal(t, int64(2), attributes["booking.addons"].AsInt64())
	assert.True(t, attributes["booking.online"].AsBool())
	assert.InDelta(t, 2240.5, attributes["booking.total"].AsFloat64(), 0.001)
	assert.Equal(t, []string{"09:00", "10:00"}, attributes["booking.slots"].AsStringSlice())
	assert.Equal(t, "{pending}", attributes["booking.status"].AsString())
	assert.Equal(t, "1h30m0s", attributes["booking.duration"].AsString())

	events := span.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "slot.locked", events[0].Name)
}
