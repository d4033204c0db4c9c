// Package queue defines activity events and the worker that writes them to
// an append-only activity log.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	minRedial = time.Second
	maxRedial = 30 * time.Second
	prefetch  = 50

	requeueDelay = 2 * time.Second
)

// ErrMalformedEvent marks a delivery that can never be handled.  Such
// messages are rejected without requeue; any other failure is requeued.
var ErrMalformedEvent = errors.New("malformed activity event")

func retryable(err error) bool {
	return err != nil && !errors.Is(err, ErrMalformedEvent)
}

// Consumer drains the activity queue into a log file.
type Consumer struct {
	URL     string
	Queue   string
	LogPath string
	Log     *zap.SugaredLogger
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes until
// ctx is cancelled.  Connection failures are retried with exponential backoff
// capped at 30s; a message that cannot be handled is rejected without
// requeue so a poison message cannot stall the queue.
func (c *Consumer) Run(ctx context.Context) error {
	wait := minRedial
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warnw("activity consumer: dial failed", "error", err, "retry_in", wait)
			if !sleepCtx(ctx, wait) {
				return ctx.Err()
			}
			wait = min(wait*2, maxRedial)
			continue
		}
		wait = minRedial

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warnw("activity consumer: consume loop ended, reconnecting", "error", err)
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, chErr := conn.Channel()
	if chErr != nil {
		return fmt.Errorf("open channel: %w", chErr)
	}
	defer ch.Close()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		c.Log.Warnw("activity consumer: set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", c.Queue, err)
	}
	msgs, consErr := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if consErr != nil {
		return fmt.Errorf("consume %s: %w", c.Queue, consErr)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("broker closed the delivery stream")
			}
			if err := c.HandleMessage(d.Body); err != nil {
				if !retryable(err) {
					c.Log.Errorw("activity consumer: dropping malformed message", "error", err)
					_ = d.Reject(false)
					continue
				}
				c.Log.Warnw("activity consumer: write failed, requeueing", "error", err, "retry_in", requeueDelay)
				if !sleepCtx(ctx, requeueDelay) {
					_ = d.Nack(false, true)
					return ctx.Err()
				}
				_ = d.Nack(false, true)
				continue
			}
			if err := d.Ack(false); err != nil {
				return fmt.Errorf("ack: %w", err)
			}
		}
	}
}

// HandleMessage decodes one delivery body and appends it to LogPath.
func (c *Consumer) HandleMessage(body []byte) error {
	var ev ActivityEvent
	if jsonErr := json.Unmarshal(body, &ev); jsonErr != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, jsonErr)
	}
	if ev.Resource == "" || ev.Action == "" {
		return fmt.Errorf("%w: missing resource or action", ErrMalformedEvent)
	}
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, openErr := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if openErr != nil {
		return fmt.Errorf("open %s: %w", c.LogPath, openErr)
	}
	if _, werr := f.WriteString(FormatLine(ev)); werr != nil {
		_ = f.Close()
		return fmt.Errorf("append %s: %w", c.LogPath, werr)
	}
	return f.Close()
}

// FormatLine renders ev as a single human-readable log line.
func FormatLine(ev ActivityEvent) string {
	return fmt.Sprintf("[%s] %s %s | id=%d | principal_id=%d | event=%s\n",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Resource, ev.Action, ev.ResourceID, ev.PrincipalID, ev.ID)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
