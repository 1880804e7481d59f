package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hfn-events/event-report-bot/internal/model"
)

func TestEventSubject(t *testing.T) {
	assert.Equal(t, "reports.s-connect.recorded", EventSubject("s-connect", model.EventTypeRecorded))
	assert.Equal(t, "reports.heartfulness_introduction.recorded", EventSubject("Heartfulness Introduction", model.EventTypeRecorded))
	assert.Equal(t, "reports.a_b_c.recorded", EventSubject("a.b*c", model.EventTypeRecorded))
	assert.Equal(t, "reports.unknown.recorded", EventSubject("  ", model.EventTypeRecorded))
}
