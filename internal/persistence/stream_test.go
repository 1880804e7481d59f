package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfn-events/event-report-bot/internal/model"
)

type recordingPublisher struct {
	events []*model.ReportEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, event *model.ReportEvent) (uint64, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.events = append(p.events, event)
	return uint64(len(p.events)), nil
}

func TestStreamMirrorPublishesRecordedEvent(t *testing.T) {
	pub := &recordingPublisher{}
	m := NewStreamMirror(pub)
	rec := model.EventRecord{ID: "rec-1", Type: "Yoga"}

	require.NoError(t, m.Mirror(context.Background(), rec))
	require.Len(t, pub.events, 1)
	assert.Equal(t, model.EventTypeRecorded, pub.events[0].Type)
	assert.Equal(t, rec, pub.events[0].Record)
	assert.NotEmpty(t, pub.events[0].ID)
	assert.Equal(t, "stream", m.Name())

	pub.err = errors.New("no responders")
	assert.Error(t, m.Mirror(context.Background(), rec))
}
