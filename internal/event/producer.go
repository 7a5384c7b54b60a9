package event

import (
	"context"
	"log/slog"

	"github.com/souqly/marketplace/internal/domain"
	"github.com/souqly/marketplace/pkg/kafka"
	"github.com/souqly/marketplace/pkg/logger"
)

// Topics for product lifecycle events.
const (
	TopicProductCreated = "marketplace.product.created"
	TopicProductUpdated = "marketplace.product.updated"
	TopicProductDeleted = "marketplace.product.deleted"
)

// Event types.
const (
	TypeProductCreated = "product.created"
	TypeProductUpdated = "product.updated"
	TypeProductDeleted = "product.deleted"
)

const (
	aggregateTypeProduct = "product"
	sourceName           = "marketplace-api"
)

// Publisher is the subset of the Kafka producer used by this package.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// ProductDeletedPayload carries the identifier of a removed product. The full
// entity is gone by the time the event fires, so the ID is all consumers get.
type ProductDeletedPayload struct {
	ID string `json:"id"`
}

// Producer publishes product lifecycle events. Publishing is best-effort and
// happens after the relational write has committed; a broker outage never
// fails the request that triggered the event.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates an event producer. A nil publisher disables publishing
// entirely, which is how deployments without Kafka run.
func NewProducer(publisher Publisher, log *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: log}
}

// ProductCreated publishes a product.created event with the full snapshot.
func (p *Producer) ProductCreated(ctx context.Context, product *domain.Product) {
	p.publish(ctx, TopicProductCreated, TypeProductCreated, product.ID, product)
}

// ProductUpdated publishes a product.updated event with the full snapshot.
func (p *Producer) ProductUpdated(ctx context.Context, product *domain.Product) {
	p.publish(ctx, TopicProductUpdated, TypeProductUpdated, product.ID, product)
}

// ProductDeleted publishes a product.deleted event carrying only the ID.
func (p *Producer) ProductDeleted(ctx context.Context, id string) {
	p.publish(ctx, TopicProductDeleted, TypeProductDeleted, id, ProductDeletedPayload{ID: id})
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID string, payload any) {
	if p.publisher == nil {
		return
	}

	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateTypeProduct, sourceName, payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()),
		)
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish product event",
			slog.String("topic", topic),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()),
		)
	}
}
