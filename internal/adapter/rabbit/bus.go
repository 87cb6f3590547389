package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
	"github.com/rideflow/ride-saga/pkg/metrics"
	"github.com/rideflow/ride-saga/pkg/rabbit"
)

// EventBus publishes stage events to the saga topic exchange.
// A nil client makes every publish a silent no-op, which lets a stage
// run without a broker during local experiments.
type EventBus struct {
	client *rabbit.RabbitMQ
	source string

	l logger.Logger
}

func NewEventBus(client *rabbit.RabbitMQ, source string, log logger.Logger) *EventBus {
	return &EventBus{
		client: client,
		source: source,
		l:      log,
	}
}

// Publish marshals detail and sends it under saga.event.<detailType>.
// The persist step of a stage must already be done when this is called.
func (b *EventBus) Publish(ctx context.Context, detailType string, detail any) error {
	ctx = wrap.WithAction(ctx, types.ActionPublishEvent)

	if b == nil || b.client == nil {
		return nil
	}

	start := time.Now()

	if err := b.client.EnsureConnection(ctx); err != nil {
		b.l.Error(ctx, "ensure connection failed", err)
		metrics.RecordEventPublished(b.source, detailType, err)
		return wrap.Error(ctx, fmt.Errorf("event bus: %w", err))
	}

	body, err := json.Marshal(detail)
	if err != nil {
		metrics.RecordEventPublished(b.source, detailType, err)
		return wrap.Error(ctx, fmt.Errorf("event bus: marshal %s: %w", detailType, err))
	}

	err = b.client.Channel.PublishWithContext(
		ctx,
		SagaExchange,
		RoutingKey(detailType),
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:   "application/json",
			Body:          body,
			Timestamp:     time.Now(),
			CorrelationId: wrap.CorrelationID(ctx),
			Headers: amqp091.Table{
				"source":      b.source,
				"detail_type": detailType,
			},
		},
	)
	metrics.RecordEventPublished(b.source, detailType, err)
	if err != nil {
		b.l.Error(ctx, "publish failed", err, "detail_type", detailType)
		return wrap.Error(ctx, fmt.Errorf("event bus: publish %s: %w", detailType, types.ErrTransport))
	}

	b.l.Info(ctx, "event published",
		"detail_type", detailType,
		"routing_key", RoutingKey(detailType),
		"took", time.Since(start).String(),
	)
	return nil
}
