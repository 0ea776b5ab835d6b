package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

type outboxRepository struct {
	db *sql.DB
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *sql.DB) *outboxRepository {
	return &outboxRepository{
		db: db,
	}
}

// Insert writes a new unprocessed event row and returns its id
func (r *outboxRepository) Insert(ctx context.Context, topic string, payload json.RawMessage) (int, error) {
	query := `
		INSERT INTO outbox_events (topic, payload, processed)
		VALUES (?, ?, FALSE)
	`

	result, err := r.db.ExecContext(ctx, query, topic, []byte(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to insert outbox event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return int(id), nil
}

// FetchUnprocessed retrieves up to limit unprocessed events, oldest first
func (r *outboxRepository) FetchUnprocessed(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	query := `
		SELECT id, topic, payload, created_at, processed
		FROM outbox_events
		WHERE processed = FALSE
		ORDER BY created_at, id
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox events: %w", err)
	}
	defer rows.Close()

	var events []models.OutboxEvent
	for rows.Next() {
		var e models.OutboxEvent
		var payload []byte
		err := rows.Scan(
			&e.ID,
			&e.Topic,
			&payload,
			&e.CreatedAt,
			&e.Processed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		e.Payload = json.RawMessage(payload)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

// MarkProcessed flags an event as delivered. Called only after the sink
// accepted the event; a crash before this call re-delivers on the next sweep.
func (r *outboxRepository) MarkProcessed(ctx context.Context, id int) error {
	query := `
		UPDATE outbox_events
		SET processed = TRUE, processed_at = NOW()
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event processed: %w", err)
	}

	return nil
}
