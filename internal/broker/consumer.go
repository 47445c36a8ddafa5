package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/example/dawaa/internal/workflow"
)

// Consumer subscribes to order-change events. It implements
// workflow.Subscription and reconnects with a fixed backoff when the
// broker drops the channel.
type Consumer struct {
	conn *Connection
	log  *logrus.Entry
}

// NewConsumer constructs a Consumer.
func NewConsumer(conn *Connection, log *logrus.Entry) *Consumer {
	return &Consumer{conn: conn, log: log}
}

// Updates starts consuming and returns the event channel. The channel
// is closed when ctx is cancelled.
func (c *Consumer) Updates(ctx context.Context) (<-chan workflow.OrderEvent, error) {
	out := make(chan workflow.OrderEvent)

	go func() {
		defer close(out)
		for {
			err := c.consumeOnce(ctx, out)
			if ctx.Err() != nil {
				return
			}

			c.log.WithError(err).Warn("orders consumer disconnected, reconnecting in 5s")

			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
		}
	}()

	return out, nil
}

func (c *Consumer) consumeOnce(ctx context.Context, out chan<- workflow.OrderEvent) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	closeChan := ch.NotifyClose(make(chan *amqp.Error, 1))

	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Exclusive auto-named queue; every consumer sees every event.
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "orders.#", ordersExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case amqpErr := <-closeChan:
			if amqpErr != nil {
				return fmt.Errorf("channel closed: %w", amqpErr)
			}
			return fmt.Errorf("channel closed")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			var event workflow.OrderEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				c.log.WithError(err).Warn("dropping malformed order event")
				continue
			}

			select {
			case out <- event:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
