package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nholm/storefront/internal/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func TestOrderPlaced_PublishesEvent(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewKafkaPublisher(writer)
	order := &domain.Order{
		ID:            primitive.NewObjectID(),
		ConsumerEmail: "ada@example.com",
		Total:         42.00,
		Status:        domain.OrderStatusPlaced,
	}

	publisher.OrderPlaced(context.Background(), order)

	require.Len(t, writer.messages, 1)
	assert.Equal(t, order.ID.Hex(), string(writer.messages[0].Key))

	var event OrderEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Equal(t, TypeOrderPlaced, event.Type)
	assert.Equal(t, order.ID.Hex(), event.OrderID)
	assert.Equal(t, "ada@example.com", event.ConsumerEmail)
	assert.Equal(t, 42.00, event.Total)
	assert.Equal(t, domain.OrderStatusPlaced, event.Status)
	assert.NotEmpty(t, event.EventID)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestOrderStatusChanged_PublishesEvent(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewKafkaPublisher(writer)
	order := &domain.Order{
		ID:            primitive.NewObjectID(),
		ConsumerEmail: "ada@example.com",
		Status:        domain.OrderStatusShipped,
	}

	publisher.OrderStatusChanged(context.Background(), order)

	require.Len(t, writer.messages, 1)

	var event OrderEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Equal(t, TypeOrderStatusChanged, event.Type)
	assert.Equal(t, domain.OrderStatusShipped, event.Status)
}

func TestOrderCancelled_PublishesEvent(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewKafkaPublisher(writer)
	orderID := primitive.NewObjectID().Hex()

	publisher.OrderCancelled(context.Background(), orderID, "ada@example.com")

	require.Len(t, writer.messages, 1)
	assert.Equal(t, orderID, string(writer.messages[0].Key))

	var event OrderEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Equal(t, TypeOrderCancelled, event.Type)
	assert.Equal(t, "ada@example.com", event.ConsumerEmail)
}

func TestPublish_BrokerErrorIsSwallowed(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	publisher := NewKafkaPublisher(writer)

	// Must not panic or propagate; order flow never depends on kafka.
	publisher.OrderPlaced(context.Background(), &domain.Order{ID: primitive.NewObjectID()})

	assert.Empty(t, writer.messages)
}

func TestFromConfig(t *testing.T) {
	assert.IsType(t, NoopPublisher{}, FromConfig(nil, "topic"))
	assert.IsType(t, NoopPublisher{}, FromConfig([]string{""}, "topic"))
	assert.IsType(t, &KafkaPublisher{}, FromConfig([]string{"localhost:9092"}, "topic"))
}
