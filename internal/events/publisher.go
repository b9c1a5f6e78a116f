package events

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/nholm/storefront/internal/domain"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
	TypeOrderCancelled     = "order.cancelled"
)

// OrderEvent is the wire shape published to the order topic.
type OrderEvent struct {
	EventID       string             `json:"event_id"`
	Type          string             `json:"type"`
	OrderID       string             `json:"order_id"`
	ConsumerEmail string             `json:"consumer_email,omitempty"`
	Status        domain.OrderStatus `json:"status,omitempty"`
	Total         float64            `json:"total,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

type Publisher interface {
	OrderPlaced(ctx context.Context, order *domain.Order)
	OrderStatusChanged(ctx context.Context, order *domain.Order)
	OrderCancelled(ctx context.Context, orderID, consumerEmail string)
}

// messageWriter is the slice of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, order *domain.Order) {
	p.publish(ctx, OrderEvent{
		Type:          TypeOrderPlaced,
		OrderID:       order.ID.Hex(),
		ConsumerEmail: order.ConsumerEmail,
		Status:        order.Status,
		Total:         order.Total,
	})
}

func (p *KafkaPublisher) OrderStatusChanged(ctx context.Context, order *domain.Order) {
	p.publish(ctx, OrderEvent{
		Type:          TypeOrderStatusChanged,
		OrderID:       order.ID.Hex(),
		ConsumerEmail: order.ConsumerEmail,
		Status:        order.Status,
	})
}

func (p *KafkaPublisher) OrderCancelled(ctx context.Context, orderID, consumerEmail string) {
	p.publish(ctx, OrderEvent{
		Type:          TypeOrderCancelled,
		OrderID:       orderID,
		ConsumerEmail: consumerEmail,
	})
}

// publish is best-effort: order handling never fails because the
// broker is down.
func (p *KafkaPublisher) publish(ctx context.Context, event OrderEvent) {
	event.EventID = uuid.NewString()
	event.OccurredAt = time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("type", event.Type).Msg("failed to marshal order event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Str("type", event.Type).Str("order_id", event.OrderID).Msg("failed to publish order event")
	}
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) OrderPlaced(context.Context, *domain.Order)        {}
func (NoopPublisher) OrderStatusChanged(context.Context, *domain.Order) {}
func (NoopPublisher) OrderCancelled(context.Context, string, string)    {}

// FromConfig picks a kafka publisher when brokers are configured and a
// no-op otherwise.
func FromConfig(brokers []string, topic string) Publisher {
	if len(brokers) == 0 || (len(brokers) == 1 && strings.TrimSpace(brokers[0]) == "") {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(NewKafkaWriter(brokers, topic))
}
