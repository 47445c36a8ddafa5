package broker

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/example/dawaa/internal/workflow"
)

// Publisher announces order changes on the orders exchange. Events are
// addressed per pharmacy via the routing key; they carry no order
// state, consumers re-fetch.
type Publisher struct {
	conn *Connection
	log  *logrus.Entry
}

// NewPublisher constructs a Publisher.
func NewPublisher(conn *Connection, log *logrus.Entry) *Publisher {
	return &Publisher{conn: conn, log: log}
}

// PublishOrderEvent publishes a single order-change event.
func (p *Publisher) PublishOrderEvent(ctx context.Context, event workflow.OrderEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	routingKey := "orders." + event.PharmacyID.String()

	err = ch.PublishWithContext(ctx, ordersExchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"order_id": event.OrderID,
		"status":   event.Status,
	}).Debug("order event published")

	return nil
}
