package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// OutboxRepository is the interface that wraps the outbox table methods the
// worker needs
type OutboxRepository interface {
	// Method FetchUnprocessed retrieves up to limit unprocessed events, oldest first.
	FetchUnprocessed(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	// Method MarkProcessed flags an event as delivered.
	MarkProcessed(ctx context.Context, id int) error
}

// Sink delivers one event to its destination
type Sink interface {
	Deliver(ctx context.Context, event models.OutboxEvent) error
}

// Worker sweeps the outbox table and pushes unprocessed events into the sink.
// An event is marked processed only after the sink accepted it, so a crash in
// between re-delivers on the next sweep (at-least-once).
type Worker struct {
	outboxRepo OutboxRepository
	sink       Sink
	batchSize  int
	logger     *zap.Logger
}

// NewWorker creates a new outbox worker
func NewWorker(outboxRepo OutboxRepository, sink Sink, batchSize int, logger *zap.Logger) *Worker {
	return &Worker{
		outboxRepo: outboxRepo,
		sink:       sink,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// Sweep processes one batch of unprocessed events in creation order. A
// delivery failure stops the sweep so older events are never skipped past;
// the batch is retried on the next run.
func (w *Worker) Sweep(ctx context.Context) error {
	events, err := w.outboxRepo.FetchUnprocessed(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch unprocessed events: %w", err)
	}

	for _, event := range events {
		if err := w.sink.Deliver(ctx, event); err != nil {
			return fmt.Errorf("failed to deliver event %d: %w", event.ID, err)
		}

		if err := w.outboxRepo.MarkProcessed(ctx, event.ID); err != nil {
			return fmt.Errorf("failed to mark event %d processed: %w", event.ID, err)
		}

		w.logger.Info("delivered outbox event",
			zap.Int("eventId", event.ID),
			zap.String("topic", event.Topic))
	}

	return nil
}

// webhookSink POSTs the event JSON to a configured URL
type webhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink creates a webhook delivery sink
func NewWebhookSink(url string) *webhookSink {
	return &webhookSink{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *webhookSink) Deliver(ctx context.Context, event models.OutboxEvent) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(event.Payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Topic", event.Topic)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// emailSink sends the event as an email notification using gopkg.in/mail.v2
type emailSink struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

// NewEmailSink creates an SMTP delivery sink
func NewEmailSink(host string, port int, username, password, from, to string) *emailSink {
	return &emailSink{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
	}
}

func (s *emailSink) Deliver(ctx context.Context, event models.OutboxEvent) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", fmt.Sprintf("[learning-platform] %s", event.Topic))
	m.SetBody("text/plain", string(event.Payload))

	d := mail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
