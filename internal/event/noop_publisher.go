package event

import (
	"context"
	"log/slog"
)

// NoopEventPublisher stands in when RabbitMQ is disabled or unreachable so the
// registry keeps serving requests without a broker.
type NoopEventPublisher struct {
	logger *slog.Logger
}

var _ EventPublisher = (*NoopEventPublisher)(nil)

func NewNoopEventPublisher(logger *slog.Logger) *NoopEventPublisher {
	return &NoopEventPublisher{logger: logger.With("component", "NoopEventPublisher")}
}

func (p *NoopEventPublisher) PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error {
	p.logger.DebugContext(ctx, "Event publishing disabled, dropping customer.created event", slog.Int64("customerID", event.Payload.CustomerID))
	return nil
}

func (p *NoopEventPublisher) PublishCustomerDeleted(ctx context.Context, event CustomerDeletedEvent) error {
	p.logger.DebugContext(ctx, "Event publishing disabled, dropping customer.deleted event", slog.Int64("customerID", event.Payload.CustomerID))
	return nil
}
