package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/hfn-events/event-report-bot/internal/model"
	"github.com/hfn-events/event-report-bot/pkg/metrics"
)

const (
	// StreamName is the name of the event reports stream.
	StreamName = "EVENT_REPORTS"

	// SubjectPrefix is the prefix for all report subjects.
	SubjectPrefix = "reports"
)

// StreamManager handles JetStream stream operations.
type StreamManager struct {
	client *Client
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{client: client}
}

// EnsureStream ensures the reports stream exists with proper configuration.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	js := m.client.JetStream()

	stream, err := js.Stream(ctx, StreamName)
	if err == nil {
		if info, err := stream.Info(ctx); err == nil {
			metrics.NATSStreamMessages.WithLabelValues(StreamName).Set(float64(info.State.Msgs))
		}
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      365 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		DenyDelete:  true,
		DenyPurge:   true,
		Description: "Committed event reports",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// EventSubject returns the subject for a report event.
func EventSubject(category string, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, subjectToken(category), eventType)
}

// subjectToken makes s safe as a single subject token.
func subjectToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '_'
		}
		return r
	}, s)
}

// PublishEvent publishes a report event to JetStream. The record id is used
// as the message id so that retried publishes are deduplicated.
func (m *StreamManager) PublishEvent(ctx context.Context, event *model.ReportEvent) (uint64, error) {
	subject := EventSubject(event.Record.Type, event.Type)

	data, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := m.client.JetStream().Publish(ctx, subject, data, jetstream.WithMsgID(event.Record.ID))
	if err != nil {
		return 0, fmt.Errorf("failed to publish event: %w", err)
	}

	metrics.NATSStreamMessages.WithLabelValues(StreamName).Inc()
	return ack.Sequence, nil
}
