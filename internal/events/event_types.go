package events

import (
	"time"

	"github.com/spec-kit/printshop-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventJobCreated EventType = "job_created"
	EventJobUpdated EventType = "job_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	JobID     string      `json:"job_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// JobCreatedPayload carries the stored job and its client.
type JobCreatedPayload struct {
	Job    domain.Job     `json:"file"`
	Client *domain.Client `json:"client,omitempty"`
	Family string         `json:"family"`
}

// JobUpdatedPayload names the field a mutation changed.
type JobUpdatedPayload struct {
	Field string     `json:"field"`
	Job   domain.Job `json:"file"`
}
