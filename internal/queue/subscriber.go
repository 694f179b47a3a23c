package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/model"
	"github.com/iliyamo/festival-schedule/internal/refresh"
)

// ErrSubscriptionClosed is returned when a subscription is reopened after
// Close.
var ErrSubscriptionClosed = errors.New("queue: subscription closed")

const maxBackoff = 30 * time.Second

// Subscriber opens change subscriptions on a shared broker connection.  The
// connection is dialed on first use and redialed after it drops.  It
// satisfies refresh.Subscriber.
type Subscriber struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewSubscriber returns a Subscriber for the broker at url.  No connection
// is made until the first Subscribe.
func NewSubscriber(url string) *Subscriber {
	return &Subscriber{url: url}
}

func (s *Subscriber) connection() (*amqp.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil && !s.conn.IsClosed() {
		return s.conn, nil
	}
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	s.conn = conn
	return conn, nil
}

// Close drops the shared connection.  Open subscriptions stop receiving
// and keep retrying until they are closed themselves.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if errors.Is(err, amqp.ErrClosed) {
		return nil
	}
	return err
}

// Subscribe binds an exclusive, auto-deleted queue to the change topics of
// coll on date.  The first bind happens before Subscribe returns; when the
// broker goes away the subscription reconnects with exponential backoff
// until it is closed.
func (s *Subscriber) Subscribe(ctx context.Context, coll model.Collection, date string) (refresh.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub := &subscription{
		owner:  s,
		coll:   coll,
		date:   date,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	deliveries, err := sub.open()
	if err != nil {
		return nil, err
	}
	go sub.run(deliveries)
	return sub, nil
}

type subscription struct {
	owner *Subscriber
	coll  model.Collection
	date  string

	events chan struct{}
	done   chan struct{}
	once   sync.Once

	mu sync.Mutex
	ch *amqp.Channel
}

func (sub *subscription) Events() <-chan struct{} {
	return sub.events
}

// Close stops the subscription.  Only the first call has an effect.
func (sub *subscription) Close() error {
	var err error
	sub.once.Do(func() {
		close(sub.done)
		sub.mu.Lock()
		defer sub.mu.Unlock()
		if sub.ch != nil {
			err = sub.ch.Close()
			sub.ch = nil
		}
	})
	if errors.Is(err, amqp.ErrClosed) {
		return nil
	}
	return err
}

func (sub *subscription) closed() bool {
	select {
	case <-sub.done:
		return true
	default:
		return false
	}
}

func (sub *subscription) open() (<-chan amqp.Delivery, error) {
	conn, err := sub.owner.connection()
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("channel open: %w", err)
	}
	fail := func(step string, err error) (<-chan amqp.Delivery, error) {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	if err := ch.ExchangeDeclare(ChangeExchange, "topic", true, false, false, false, nil); err != nil {
		return fail("exchange declare", err)
	}
	q, err := ch.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // autoDelete
		true,  // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fail("queue declare", err)
	}
	for _, key := range BindingKeys(sub.coll, sub.date) {
		if err := ch.QueueBind(q.Name, key, ChangeExchange, false, nil); err != nil {
			return fail("queue bind "+key, err)
		}
	}
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fail("queue consume", err)
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed() {
		_ = ch.Close()
		return nil, ErrSubscriptionClosed
	}
	sub.ch = ch
	return deliveries, nil
}

// run drains deliveries and reopens the subscription whenever the channel
// ends before Close.
func (sub *subscription) run(deliveries <-chan amqp.Delivery) {
	backoff := time.Second
	for {
		sub.drain(deliveries)
		if sub.closed() {
			return
		}
		appLog.Warn("change feed lost, reconnecting", "collection", sub.coll, "date", sub.date)

		for {
			select {
			case <-sub.done:
				return
			case <-time.After(backoff):
			}
			var err error
			deliveries, err = sub.open()
			if err == nil {
				backoff = time.Second
				break
			}
			if errors.Is(err, ErrSubscriptionClosed) {
				return
			}
			appLog.Error("change feed reconnect failed", err, "collection", sub.coll, "date", sub.date, "retry_in", backoff)
			if backoff < maxBackoff {
				backoff *= 2
			}
		}
	}
}

// drain turns deliveries into change signals until the delivery channel
// closes.  Signals coalesce: a pending one is not duplicated.
func (sub *subscription) drain(deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		var ev ChangeEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			appLog.Debug("change event without readable payload", "routing_key", d.RoutingKey, "err", err)
		} else {
			appLog.Debug("change event", "event_id", ev.EventID, "collection", ev.Collection, "date", ev.Date, "id", ev.ID)
		}
		select {
		case sub.events <- struct{}{}:
		default:
		}
	}
}
