// Package service publishes schedule change events to RabbitMQ.  Errors are
// logged and returned so callers decide whether a failed publish matters.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/queue"
)

// ChangePublisher sends ChangeEvents to the change exchange.  Each publish
// dials its own connection.
type ChangePublisher struct {
	url string
}

// NewChangePublisher returns a publisher for the broker at url.
func NewChangePublisher(url string) *ChangePublisher {
	return &ChangePublisher{url: url}
}

// Publish sends ev under its routing key.  Messages are transient: a
// change nobody is listening for is safe to lose.
func (p *ChangePublisher) Publish(ctx context.Context, ev queue.ChangeEvent) error {
	if !ev.Collection.Valid() {
		return fmt.Errorf("publish change: unknown collection %q", ev.Collection)
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		appLog.Error("rabbitmq: dial failed", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		appLog.Error("rabbitmq: channel open failed", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; subscribers declare the same exchange.
	if err := ch.ExchangeDeclare(
		queue.ChangeExchange, // name
		"topic",              // kind
		true,                 // durable
		false,                // autoDelete
		false,                // internal
		false,                // noWait
		nil,                  // args
	); err != nil {
		appLog.Error("rabbitmq: exchange declare failed", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		appLog.Error("rabbitmq: marshal event failed", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    ev.EventID,
		DeliveryMode: amqp.Transient,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		queue.ChangeExchange, // exchange
		ev.RoutingKey(),      // routing key
		false,                // mandatory
		false,                // immediate
		pub,
	); err != nil {
		appLog.Error("rabbitmq: publish failed", err, "routing_key", ev.RoutingKey())
		return err
	}
	appLog.Info("change published", "routing_key", ev.RoutingKey(), "id", ev.ID)
	return nil
}
