package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsumer_DeliverDecodesEvent(t *testing.T) {
	c := &Consumer{log: zap.NewNop()}

	var got NotificationEvent
	msg := kafkaGo.Message{
		Topic: "notifications",
		Value: []byte(`{"id":"N1","user_id":"U1","message":"hello","channel":"EMAIL","created_at":"2026-09-01T10:00:00Z"}`),
	}
	err := c.deliver(context.Background(), msg, func(ctx context.Context, event NotificationEvent) error {
		got = event
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "N1", got.ID)
	assert.Equal(t, "U1", got.UserID)
	assert.Equal(t, "EMAIL", got.Channel)
	assert.True(t, got.CreatedAt.Equal(time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)))
}

func TestConsumer_DeliverSkipsUndecodableMessage(t *testing.T) {
	c := &Consumer{log: zap.NewNop()}

	called := false
	err := c.deliver(context.Background(), kafkaGo.Message{Value: []byte("not json")}, func(ctx context.Context, event NotificationEvent) error {
		called = true
		return nil
	})

	assert.NoError(t, err, "a bad message must not stop the consumer")
	assert.False(t, called)
}

func TestConsumer_DeliverPropagatesHandlerError(t *testing.T) {
	c := &Consumer{log: zap.NewNop()}

	wantErr := errors.New("smtp down")
	err := c.deliver(context.Background(), kafkaGo.Message{Value: []byte(`{"id":"N1"}`)}, func(ctx context.Context, event NotificationEvent) error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
}
