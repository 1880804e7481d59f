package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfn-events/event-report-bot/internal/dialogue"
	"github.com/hfn-events/event-report-bot/internal/model"
	"github.com/hfn-events/event-report-bot/internal/normalize"
	"github.com/hfn-events/event-report-bot/internal/places"
	"github.com/hfn-events/event-report-bot/internal/record"
	"github.com/hfn-events/event-report-bot/internal/session"
	"github.com/hfn-events/event-report-bot/pkg/logger"
)

type stubCommitter struct {
	committed map[string]model.EventRecord
}

func (c *stubCommitter) Commit(_ context.Context, key string, rec model.EventRecord) error {
	c.committed[key] = rec
	return nil
}

func (c *stubCommitter) Committed(key string) (model.EventRecord, bool) {
	rec, ok := c.committed[key]
	return rec, ok
}

type failingStore struct {
	session.Store
}

func (failingStore) Load(context.Context, string) (model.ConversationState, error) {
	return model.ConversationState{}, errors.New("redis: connection refused")
}

func newTestService(t *testing.T, store session.Store, lifespan int) (*ConversationService, *stubCommitter) {
	t.Helper()
	dir, err := places.Default(places.DefaultThreshold)
	require.NoError(t, err)

	n := normalize.New(time.UTC, nil)
	committer := &stubCommitter{committed: map[string]model.EventRecord{}}
	controller := dialogue.NewController(n, dir, record.NewAssembler(dir, n, nil, nil), committer,
		dialogue.WithLifespan(lifespan))
	return NewConversationService(controller, store, logger.NewNop()), committer
}

func yogaReport() model.ParameterSet {
	return model.ParameterSet{
		model.FieldEventType:        "Yoga",
		model.FieldEventDay:         "day-1",
		model.FieldEventCount:       "12",
		model.FieldCoordinatorName:  "A",
		model.FieldCoordinatorPhone: "555",
		model.FieldEventDate:        "2024-01-10",
		model.FieldInstitution:      "Center X",
		model.FieldCity:             "Pune",
		model.FieldCountry:          "India",
		model.FieldTrainerID:        "none",
		model.FieldFeedback:         "none",
	}
}

func TestHandleStoresProgressBetweenTurns(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(time.Minute)
	svc, _ := newTestService(t, store, dialogue.DefaultLifespan)

	reply, err := svc.Handle(ctx, dialogue.Turn{
		SessionID:  "s1",
		Intent:     model.IntentEventInfo,
		Parameters: model.ParameterSet{model.FieldEventType: "Yoga"},
	})
	require.NoError(t, err)
	assert.Equal(t, dialogue.OutcomeAsk, reply.Outcome.Kind)
	assert.Equal(t, model.FieldEventDay, reply.Outcome.Field)

	stored, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Yoga", stored.Known.Get(model.FieldEventType))
	assert.False(t, stored.UpdatedAt.IsZero())

	reply, err = svc.Handle(ctx, dialogue.Turn{
		SessionID:  "s1",
		Intent:     model.IntentEventInfo,
		Parameters: model.ParameterSet{model.FieldEventDay: "day-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.FieldEventCount, reply.Outcome.Field, "earlier answers are remembered")
}

func TestHandleClearsStateAfterCommit(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(time.Minute)
	svc, committer := newTestService(t, store, dialogue.DefaultLifespan)

	reply, err := svc.Handle(ctx, dialogue.Turn{SessionID: "s1", Intent: model.IntentEventInfo, Parameters: yogaReport()})
	require.NoError(t, err)
	require.Equal(t, dialogue.OutcomeConfirm, reply.Outcome.Kind)

	reply, err = svc.Handle(ctx, dialogue.Turn{SessionID: "s1", ResponseID: "r2", Intent: model.IntentConfirm})
	require.NoError(t, err)
	assert.Equal(t, dialogue.OutcomeCommitted, reply.Outcome.Kind)
	assert.Contains(t, committer.committed, "s1/r2")

	_, err = svc.Get(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestHandleExpiresStaleConversation(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(time.Minute)
	svc, _ := newTestService(t, store, dialogue.DefaultLifespan)

	stale := model.NewConversationState("s1")
	stale.Known = model.ParameterSet{model.FieldEventType: "Yoga", model.FieldEventDay: "day-1"}
	stale.Stage = model.StageAwaitingField
	stale.Lifespan = 0
	require.NoError(t, store.Save(ctx, stale))

	reply, err := svc.Handle(ctx, dialogue.Turn{SessionID: "s1", Intent: model.IntentEventInfo, Parameters: model.ParameterSet{model.FieldCity: "Pune"}})
	require.NoError(t, err)
	assert.Equal(t, model.FieldEventType, reply.Outcome.Field, "an expired conversation starts over")
	assert.Equal(t, "Pune", reply.State.Known.Get(model.FieldCity))
	assert.False(t, reply.State.Known.Has(model.FieldEventDay))
	assert.Equal(t, dialogue.DefaultLifespan, reply.State.Lifespan)
}

func TestHandleRejectsInvalidTurnAndStoreErrors(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService(t, session.NewMemoryStore(time.Minute), dialogue.DefaultLifespan)
	_, err := svc.Handle(ctx, dialogue.Turn{Intent: model.IntentEventInfo})
	assert.ErrorIs(t, err, dialogue.ErrNoSession)

	svc, _ = newTestService(t, failingStore{}, dialogue.DefaultLifespan)
	_, err = svc.Handle(ctx, dialogue.Turn{SessionID: "s1", Intent: model.IntentWelcome})
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(time.Minute)
	svc, _ := newTestService(t, store, dialogue.DefaultLifespan)

	assert.ErrorIs(t, svc.Reset(ctx, "s1"), session.ErrNotFound)

	_, err := svc.Handle(ctx, dialogue.Turn{SessionID: "s1", Intent: model.IntentEventInfo, Parameters: model.ParameterSet{model.FieldEventType: "Yoga"}})
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, "s1"))

	_, err = svc.Get(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}
