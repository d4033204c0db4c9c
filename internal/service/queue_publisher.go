// Package service holds process-level collaborators shared by handlers.
// The activity publisher bounds every publish by the caller's context:
// failures are logged and returned, and callers are free to ignore them.
package service

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/nileshswami544-code/freelancerpayment/internal/queue"
)

// ActivityPublisher sends activity events somewhere.
type ActivityPublisher interface {
	Publish(ctx context.Context, ev q.ActivityEvent) error
}

// NopPublisher drops every event.  Used when EVENTS_ENABLED is false.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, q.ActivityEvent) error { return nil }

// AMQPPublisher publishes events as persistent JSON messages to a durable
// queue on the default exchange.  The connection is opened lazily and
// re-dialled after a failure.  Publish returns once ctx is done even when the
// broker stops answering mid-handshake.
type AMQPPublisher struct {
	url   string
	queue string
	log   *zap.SugaredLogger

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewAMQPPublisher returns a publisher for queue on the broker at url.
func NewAMQPPublisher(url, queue string, log *zap.SugaredLogger) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue, log: log}
}

// dialTimeout bounds the TCP connect and AMQP handshake when ctx carries no
// deadline of its own.
const dialTimeout = 5 * time.Second

// ctxDialer connects with ctx and arms a deadline for the handshake.  amqp091
// clears the deadline once the connection is open.
func ctxDialer(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(dialTimeout)
		}
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

// connection returns the shared connection, dialling a new one outside the
// lock when there is none.  If two callers dial at once the first stored
// connection wins and the other is closed.
func (p *AMQPPublisher) connection(ctx context.Context) (*amqp.Connection, error) {
	p.mu.Lock()
	if p.conn != nil && !p.conn.IsClosed() {
		conn := p.conn
		p.mu.Unlock()
		return conn, nil
	}
	p.mu.Unlock()

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      ctxDialer(ctx),
	})
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		_ = conn.Close()
		return p.conn, nil
	}
	p.conn = conn
	return conn, nil
}

// drop forgets conn if it is still the shared connection.
func (p *AMQPPublisher) drop(conn *amqp.Connection) {
	p.mu.Lock()
	if p.conn == conn {
		p.conn = nil
	}
	p.mu.Unlock()
	_ = conn.Close()
}

// Publish sends ev.  A channel is opened per message; the connection is
// shared.  The broker round trips run in their own goroutine so a stalled
// broker costs the caller at most its ctx deadline.
func (p *AMQPPublisher) Publish(ctx context.Context, ev q.ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Errorw("rabbitmq: marshal event failed", "error", err)
		return err
	}

	done := make(chan error, 1)
	go func() { done <- p.send(ctx, ev.ID, body) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		p.log.Warnw("rabbitmq: publish abandoned", "queue", p.queue, "event", ev.ID, "error", ctx.Err())
		return ctx.Err()
	}
}

func (p *AMQPPublisher) send(ctx context.Context, id string, body []byte) error {
	conn, err := p.connection(ctx)
	if err != nil {
		p.log.Warnw("rabbitmq: dial failed", "error", err)
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		p.log.Warnw("rabbitmq: channel open failed", "error", err)
		p.drop(conn)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.log.Warnw("rabbitmq: queue declare failed", "queue", p.queue, "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    id,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.Warnw("rabbitmq: publish failed", "queue", p.queue, "error", err)
		return err
	}
	return nil
}

// Close releases the shared connection, if any.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// Recorder keeps published events in memory.  Tests use it to assert what a
// handler emitted.
type Recorder struct {
	mu     sync.Mutex
	events []q.ActivityEvent
}

func (r *Recorder) Publish(_ context.Context, ev q.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []q.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]q.ActivityEvent, len(r.events))
	copy(out, r.events)
	return out
}
