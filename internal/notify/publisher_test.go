package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/kds/internal/enum"
	"github.com/kiwari-pos/kds/internal/order"
	"github.com/kiwari-pos/kds/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu     sync.Mutex
	msgs   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeChannel) sent() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.msgs...)
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func orderEvent(typ string) service.Event {
	return service.Event{
		Type: typ,
		Order: &order.Order{
			ID:          uuid.New(),
			OrderNumber: 1067,
			Origin:      order.Table(4),
			Status:      order.StatusNew,
			Category:    order.CategoryDesserts,
		},
		At: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_PublishesWithRoutingKey(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, nil, DefaultExchange, 8, discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	created := orderEvent(enum.EventOrderCreated)
	p.Notify(created)
	p.Notify(service.Event{Type: enum.EventOrdersTicked, Ticked: 3, At: created.At})

	require.Eventually(t, func() bool { return len(ch.sent()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	msgs := ch.sent()
	first := msgs[0]
	assert.Equal(t, DefaultExchange, first.exchange)
	assert.Equal(t, enum.EventOrderCreated, first.key)
	assert.Equal(t, "application/json", first.msg.ContentType)
	assert.Equal(t, amqp.Persistent, first.msg.DeliveryMode)
	assert.Equal(t, created.Order.ID.String(), first.msg.MessageId)
	assert.Equal(t, "desserts", first.msg.Headers["category"])

	var body struct {
		Type  string `json:"type"`
		Order struct {
			OrderNumber int    `json:"order_number"`
			Table       string `json:"table"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(first.msg.Body, &body))
	assert.Equal(t, enum.EventOrderCreated, body.Type)
	assert.Equal(t, 1067, body.Order.OrderNumber)
	assert.Equal(t, "Table 4", body.Order.Table)

	assert.Equal(t, enum.EventOrdersTicked, msgs[1].key)
	assert.Empty(t, msgs[1].msg.MessageId)
	assert.JSONEq(t, `{"type":"orders.ticked","ticked":3,"at":"2026-03-14T12:00:00Z"}`, string(msgs[1].msg.Body))
}

func TestPublisher_NotifyNeverBlocks(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, nil, DefaultExchange, 2, discard())

	done := make(chan struct{})
	go func() {
		for range 5 {
			p.Notify(orderEvent(enum.EventOrderUpdated))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked without a running worker")
	}
	assert.Equal(t, int64(3), p.Dropped())
}

func TestPublisher_FlushesOnShutdown(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, nil, DefaultExchange, 8, discard())
	p.Notify(orderEvent(enum.EventOrderCompleted))
	p.Notify(orderEvent(enum.EventOrderCompleted))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Run(ctx)

	assert.Len(t, ch.sent(), 2)
}

func TestPublisher_ErrorsDoNotStopWorker(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newPublisher(ch, nil, DefaultExchange, 8, discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	p.Notify(orderEvent(enum.EventOrderCreated))
	time.Sleep(20 * time.Millisecond)

	ch.mu.Lock()
	ch.err = nil
	ch.mu.Unlock()
	p.Notify(orderEvent(enum.EventOrderUpdated))

	require.Eventually(t, func() bool { return len(ch.sent()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, enum.EventOrderUpdated, ch.sent()[0].key)
	cancel()
	<-done
}

type closer struct{ closed bool }

func (c *closer) Close() error { c.closed = true; return nil }

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	conn := &closer{}
	p := newPublisher(ch, conn, DefaultExchange, 1, discard())

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.True(t, conn.closed)
}
