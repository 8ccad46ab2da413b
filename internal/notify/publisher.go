// Package notify publishes order board events to a RabbitMQ topic exchange
// so that other systems (receipt printers, expo screens, analytics) can
// follow the kitchen without polling.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/kiwari-pos/kds/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "kds.events"
	DefaultBuffer   = 256

	publishTimeout = 5 * time.Second
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher is a service.Notifier that forwards events to AMQP from its
// own goroutine. Notify never blocks: when the buffer is full the event is
// dropped and counted.
type Publisher struct {
	ch       channel
	conn     io.Closer
	exchange string
	queue    chan service.Event
	log      *slog.Logger
	dropped  atomic.Int64
}

// Dial connects to url and declares a durable topic exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return newPublisher(ch, conn, exchange, DefaultBuffer, logger), nil
}

func newPublisher(ch channel, conn io.Closer, exchange string, buffer int, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		ch:       ch,
		conn:     conn,
		exchange: exchange,
		queue:    make(chan service.Event, buffer),
		log:      logger.With("component", "notify", "exchange", exchange),
	}
}

// Notify queues ev for publishing.
func (p *Publisher) Notify(ev service.Event) {
	select {
	case p.queue <- ev:
	default:
		n := p.dropped.Add(1)
		p.log.Warn("event buffer full, dropping", "type", ev.Type, "dropped", n)
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (p *Publisher) Dropped() int64 { return p.dropped.Load() }

// Run publishes queued events until ctx is cancelled, then flushes what is
// already buffered.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.flush()
			return
		case ev := <-p.queue:
			if err := p.publish(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
				p.log.Error("publish event", "type", ev.Type, "error", err)
			}
		}
	}
}

func (p *Publisher) flush() {
	for {
		select {
		case ev := <-p.queue:
			if err := p.publish(context.Background(), ev); err != nil {
				p.log.Error("publish event on shutdown", "type", ev.Type, "error", err)
			}
		default:
			return
		}
	}
}

func (p *Publisher) publish(ctx context.Context, ev service.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Type, err)
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.At.UTC(),
		ContentType:  "application/json",
		Type:         ev.Type,
		Body:         body,
	}
	if ev.Order != nil {
		msg.MessageId = ev.Order.ID.String()
		msg.Headers = amqp.Table{
			"order_number": int64(ev.Order.OrderNumber),
			"category":     string(ev.Order.Category),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	// The routing key is the event type so consumers can bind "order.*".
	return p.ch.PublishWithContext(ctx, p.exchange, ev.Type, false, false, msg)
}

// Close shuts the channel and connection. Call after Run has returned.
func (p *Publisher) Close() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

var _ service.Notifier = (*Publisher)(nil)
