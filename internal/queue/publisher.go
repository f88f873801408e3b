package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                        { return nil }

var (
	// ErrBufferFull is returned by Publish when the delivery backlog is full;
	// the event is dropped.
	ErrBufferFull = errors.New("rabbitmq: publish buffer full")
	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("rabbitmq: publisher closed")
)

const (
	defaultBuffer       = 256
	defaultDialTimeout  = 3 * time.Second
	defaultSendTimeout  = 3 * time.Second
	defaultRetryBackoff = 5 * time.Second
	defaultDrainTimeout = 5 * time.Second
)

// AMQPPublisher publishes events to a durable RabbitMQ queue through the
// default exchange. Publish only enqueues: a single goroutine owns the
// connection and delivers events in order, so a slow or silent broker never
// holds up the caller. After a failed dial the worker drops events until the
// backoff elapses, then dials again.
type AMQPPublisher struct {
	url   string
	queue string

	dialTimeout  time.Duration
	sendTimeout  time.Duration
	retryBackoff time.Duration
	drainTimeout time.Duration

	mu     sync.RWMutex // guards closed and sends on events
	closed bool
	events chan Event
	done   chan struct{}

	// owned by run
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

// NewAMQPPublisher starts a publisher for the given broker URL and queue.
// The connection is opened on the first event.
func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	return newAMQPPublisher(url, queue, defaultBuffer, defaultDialTimeout)
}

func newAMQPPublisher(url, queue string, buffer int, dialTimeout time.Duration) *AMQPPublisher {
	p := &AMQPPublisher{
		url:          url,
		queue:        queue,
		dialTimeout:  dialTimeout,
		sendTimeout:  defaultSendTimeout,
		retryBackoff: defaultRetryBackoff,
		drainTimeout: defaultDrainTimeout,
		events:       make(chan Event, buffer),
		done:         make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish queues ev for delivery and returns immediately. It never blocks
// on the broker.
func (p *AMQPPublisher) Publish(_ context.Context, ev Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.events <- ev:
		return nil
	default:
		return ErrBufferFull
	}
}

// Close stops accepting events, waits for the backlog to be delivered (up to
// the drain timeout) and releases the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-time.After(p.drainTimeout):
		return fmt.Errorf("rabbitmq: %d events not delivered before shutdown", len(p.events))
	}
}

func (p *AMQPPublisher) run() {
	defer close(p.done)
	defer p.reset()
	for ev := range p.events {
		if err := p.send(ev); err != nil {
			log.Warn().Err(err).Str("event", ev.Type).Str("user_id", ev.UserID).Msg("publish event failed")
		}
	}
}

func (p *AMQPPublisher) send(ev Event) error {
	msg, err := encode(ev)
	if err != nil {
		return err
	}
	if err := p.ensureChannel(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.sendTimeout)
	defer cancel()
	if err := p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		msg,
	); err != nil {
		p.reset()
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// ensureChannel is only called from run.
func (p *AMQPPublisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.reset()
	if time.Now().Before(p.retryAt) {
		return errors.New("rabbitmq: broker unavailable, waiting to redial")
	}

	conn, err := p.dial()
	if err != nil {
		p.retryAt = time.Now().Add(p.retryBackoff)
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		p.retryAt = time.Now().Add(p.retryBackoff)
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	// Durable so messages survive broker restarts; declaring is idempotent.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		p.retryAt = time.Now().Add(p.retryBackoff)
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

// dial bounds both the TCP connect and the AMQP handshake by dialTimeout.
func (p *AMQPPublisher) dial() (*amqp.Connection, error) {
	return amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout),
	})
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func encode(ev Event) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	ts := ev.OccurredAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Type:         ev.Type,
		Timestamp:    ts.UTC(),
		Body:         body,
	}, nil
}
