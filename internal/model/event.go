package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusProcessed  OutboxStatus = "PROCESSED"
	OutboxStatusFailed     OutboxStatus = "FAILED"
)

// OutboxEvent is a domain event written in the same transaction as the
// state change it describes. A background processor delivers pending
// events to the message broker, so a broker outage never loses an event
// and a rolled-back booking never publishes one.
type OutboxEvent struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Channel     string          `db:"channel" json:"channel"`
	Payload     json.RawMessage `db:"payload" json:"payload"`
	Status      OutboxStatus    `db:"status" json:"status"`
	Error       *string         `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// AppointmentEvent is the payload published for appointment lifecycle
// changes.
type AppointmentEvent struct {
	Appointment    *Appointment      `json:"appointment"`
	PreviousStatus AppointmentStatus `json:"previous_status,omitempty"`
}
