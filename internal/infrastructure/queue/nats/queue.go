// Package nats carries invoice-received events between the API and the
// processing worker.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avosseler/vendormind/internal/infrastructure/resilience"
	"github.com/nats-io/nats.go"
)

const workerQueueGroup = "invoice-workers"

// invoiceEvent is the wire payload. EnqueuedAt lets consumers see how long
// an invoice sat in the queue.
type invoiceEvent struct {
	InvoiceID  string    `json:"invoice_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type Queue struct {
	conn     *nats.Conn
	subject  string
	executor *resilience.Executor
}

func New(url, subject string) (*Queue, error) {
	return NewWithOptions(url, subject, Options{})
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func NewWithOptions(url, subject string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("vendormind"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:     conn,
		subject:  subject,
		executor: options.ResilienceExecutor,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishInvoiceReceived(ctx context.Context, invoiceID string) error {
	payload, err := json.Marshal(invoiceEvent{
		InvoiceID:  invoiceID,
		EnqueuedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal invoice event: %w", err)
	}

	publish := func(_ context.Context) error {
		if err := q.conn.Publish(q.subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", publish, classifyNATSError)
	} else {
		err = publish(ctx)
	}
	return wrapTemporaryIfNeeded(err)
}

func (q *Queue) SubscribeInvoiceReceived(ctx context.Context, handler func(context.Context, string) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, workerQueueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		event := decodeInvoiceEvent(msg.Data)
		if event.InvoiceID == "" {
			slog.Warn("discarding invoice event without id", "subject", q.subject)
			return
		}

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handler(handlerCtx, event.InvoiceID); err != nil {
			slog.Error("invoice handler failed", "invoice_id", event.InvoiceID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

// decodeInvoiceEvent accepts the JSON envelope or a bare invoice id payload.
func decodeInvoiceEvent(data []byte) invoiceEvent {
	var event invoiceEvent
	if err := json.Unmarshal(data, &event); err == nil && event.InvoiceID != "" {
		return event
	}
	return invoiceEvent{InvoiceID: string(data)}
}
