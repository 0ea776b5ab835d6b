package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// OutboxRepository is the interface that wraps methods for outbox_events table data access
type OutboxRepository interface {
	// Method Insert writes one unprocessed event row and returns its id.
	Insert(ctx context.Context, topic string, payload json.RawMessage) (int, error)
	// Method FetchUnprocessed retrieves up to limit unprocessed events, oldest first.
	FetchUnprocessed(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	// Method MarkProcessed flags an event as delivered.
	MarkProcessed(ctx context.Context, id int) error
}

// outboxPublisher writes domain events into the outbox table. Delivery is the
// worker's job; publication is just a row insert next to the business write.
type outboxPublisher struct {
	outboxRepo OutboxRepository
	logger     *zap.Logger
}

// NewOutboxPublisher creates a new outbox publisher
func NewOutboxPublisher(outboxRepo OutboxRepository, logger *zap.Logger) *outboxPublisher {
	return &outboxPublisher{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// Publish serializes the payload and inserts one unprocessed outbox row
func (p *outboxPublisher) Publish(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	id, err := p.outboxRepo.Insert(ctx, topic, body)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published outbox event",
		zap.Int("eventId", id),
		zap.String("topic", topic))
	return nil
}
