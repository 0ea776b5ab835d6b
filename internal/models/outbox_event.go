package models

import (
	"encoding/json"
	"time"
)

// Outbox event topics
const (
	TopicEnrollmentCreated       = "enrollment.created"
	TopicEnrollmentStatusChanged = "enrollment.status_changed"
	TopicCertificateIssued       = "certificate.issued"
)

// OutboxEvent is a write-once event record consumed by the notification
// worker. Delivery is at-least-once: a worker crash after send but before
// marking processed re-delivers the event.
type OutboxEvent struct {
	ID          int             `json:"id"`
	Topic       string          `json:"topic"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"createdAt"`
	Processed   bool            `json:"processed"`
	ProcessedAt *time.Time      `json:"processedAt,omitempty"`
}
