package rabbit

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rideflow/ride-saga/internal/domain/types"
	"github.com/rideflow/ride-saga/pkg/logger"
	wrap "github.com/rideflow/ride-saga/pkg/logger/wrapper"
	"github.com/rideflow/ride-saga/pkg/metrics"
	"github.com/rideflow/ride-saga/pkg/rabbit"
)

// HandlerFunc processes one decoded event body. Returning an error
// requeues the delivery, so the bus retries the whole stage.
type HandlerFunc func(ctx context.Context, detailType string, body []byte) error

// StageConsumer attaches a stage to its queue on the saga exchange.
type StageConsumer struct {
	client *rabbit.RabbitMQ
	stage  string

	l logger.Logger
}

func NewStageConsumer(client *rabbit.RabbitMQ, stage string, log logger.Logger) *StageConsumer {
	return &StageConsumer{client: client, stage: stage, l: log}
}

// declareAndBind declares the stage queue and binds it to every detail
// type the stage consumes.
func (c *StageConsumer) declareAndBind(queueName string) (amqp.Queue, error) {
	q, err := c.client.Channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return q, err
	}

	for _, detailType := range queueBindings[queueName] {
		if err := c.client.Channel.QueueBind(q.Name, RoutingKey(detailType), SagaExchange, false, nil); err != nil {
			return q, err
		}
	}

	return q, nil
}

func (c *StageConsumer) handleDelivery(ctx context.Context, fn HandlerFunc, msg amqp.Delivery) {
	ctx = wrap.WithAction(ctx, types.ActionConsumeEvent)
	if msg.CorrelationId != "" {
		ctx = wrap.WithCorrelationID(ctx, msg.CorrelationId)
	}

	detailType, _ := msg.Headers["detail_type"].(string)
	if detailType == "" {
		detailType = detailTypeFromKey(msg.RoutingKey)
	}

	err := fn(ctx, detailType, msg.Body)
	metrics.RecordEventConsumed(c.stage, detailType, err)
	if err != nil {
		c.l.Error(ctx, "handler failed", err, "detail_type", detailType)

		if isUnrecoverable(err) {
			c.l.Warn(ctx, "dropping event", "reason", err.Error())
			_ = msg.Reject(false)
			return
		}

		_ = msg.Nack(false, true)
		return
	}

	if err := msg.Ack(false); err != nil {
		c.l.Warn(ctx, "ack failed", "error", err.Error())
	}
}

// Consume runs the stage consumer loop until ctx is cancelled. It
// re-declares topology and re-subscribes after every broker hiccup.
func (c *StageConsumer) Consume(ctx context.Context, queueName string, fn HandlerFunc) error {
	for {
		if ctx.Err() != nil {
			c.l.Debug(ctx, "consumer stopped by context", "queue", queueName)
			return nil
		}

		if err := c.client.EnsureConnection(ctx); err != nil {
			c.l.Error(ctx, "ensure connection failed", err)
			time.Sleep(2 * time.Second)
			continue
		}

		if err := c.client.Channel.ExchangeDeclare(SagaExchange, "topic", true, false, false, false, nil); err != nil {
			c.l.Error(ctx, "declare exchange failed", err)
			time.Sleep(3 * time.Second)
			continue
		}

		q, err := c.declareAndBind(queueName)
		if err != nil {
			c.l.Error(ctx, "declare queue failed", err, "queue", queueName)
			time.Sleep(2 * time.Second)
			continue
		}

		msgs, err := c.client.Channel.Consume(q.Name, "", false, false, false, false, nil)
		if err != nil {
			c.l.Error(ctx, "consume failed", err, "queue", queueName)
			time.Sleep(2 * time.Second)
			continue
		}

		c.l.Info(ctx, "consuming stage events", "queue", q.Name)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				c.l.Info(ctx, "consumer shutting down", "queue", queueName)
				return nil

			case msg, ok := <-msgs:
				if !ok {
					c.l.Warn(ctx, "message channel closed, reconnecting", "queue", queueName)
					time.Sleep(2 * time.Second)
					break consumeLoop
				}

				c.handleDelivery(ctx, fn, msg)
			}
		}
	}
}
