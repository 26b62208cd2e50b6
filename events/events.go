// Package events publishes order lifecycle messages for downstream
// consumers such as fulfilment.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-faster/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const TypeOrderCaptured = "order.captured"

// OrderCaptured is emitted once a PayPal capture has succeeded.
type OrderCaptured struct {
	Type          string          `json:"type"`
	OrderID       string          `json:"order_id"`
	TransactionID string          `json:"transaction_id"`
	UserID        string          `json:"user_id"`
	PayerEmail    string          `json:"payer_email,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CapturedAt    time.Time       `json:"captured_at"`
}

type Publisher interface {
	PublishOrderCaptured(ctx context.Context, e OrderCaptured) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishOrderCaptured(context.Context, OrderCaptured) error { return nil }
func (Nop) Close() error                                              { return nil }

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher writes persistent JSON messages to a durable queue through
// the default exchange. An amqp channel is not safe for concurrent
// publishing, so calls are serialized.
type AMQPPublisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    channel
	queue string
}

// DialAMQP connects to the broker and declares the durable queue.
func DialAMQP(uri, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, errors.Wrap(err, "connect to rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open rabbitmq channel")
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declare queue %q", queue)
	}

	return &AMQPPublisher{conn: conn, ch: ch, queue: q.Name}, nil
}

func (p *AMQPPublisher) PublishOrderCaptured(ctx context.Context, e OrderCaptured) error {
	e.Type = TypeOrderCaptured
	if e.CapturedAt.IsZero() {
		e.CapturedAt = time.Now().UTC()
	}

	body, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         e.Type,
		MessageId:    e.TransactionID,
		Timestamp:    e.CapturedAt,
		Body:         body,
	}); err != nil {
		return errors.Wrap(err, "publish order.captured")
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	chErr := p.ch.Close()
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return errors.Wrap(err, "close rabbitmq connection")
		}
	}
	if chErr != nil {
		return errors.Wrap(chErr, "close rabbitmq channel")
	}
	return nil
}
