package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hfn-events/event-report-bot/internal/model"
)

// EventPublisher publishes report events to the event bus.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *model.ReportEvent) (uint64, error)
}

// StreamMirror announces committed records on the event bus.
type StreamMirror struct {
	publisher EventPublisher
}

// NewStreamMirror creates a mirror over publisher.
func NewStreamMirror(publisher EventPublisher) *StreamMirror {
	return &StreamMirror{publisher: publisher}
}

// Name implements Mirror.
func (m *StreamMirror) Name() string { return "stream" }

// Mirror implements Mirror.
func (m *StreamMirror) Mirror(ctx context.Context, rec model.EventRecord) error {
	_, err := m.publisher.PublishEvent(ctx, &model.ReportEvent{
		ID:        uuid.NewString(),
		Type:      model.EventTypeRecorded,
		Record:    rec,
		CreatedAt: time.Now().UTC(),
	})
	return err
}
