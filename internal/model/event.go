package model

import (
	"time"
)

// EventType represents the type of report lifecycle event.
type EventType string

const (
	EventTypeRecorded EventType = "recorded"
)

// ReportEvent is published to the event bus when a record is committed.
type ReportEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Record    EventRecord `json:"record"`
	CreatedAt time.Time   `json:"created_at"`
}
