package dialogue

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/hfn-events/event-report-bot/internal/model"
	"github.com/hfn-events/event-report-bot/internal/normalize"
	"github.com/hfn-events/event-report-bot/pkg/logger"
)

// DefaultLifespan is the number of turns an in-progress report survives.
const DefaultLifespan = 12

// ContextFollowUp is the context that routes the next turn to the yes/no
// confirmation intents.
const ContextFollowUp = "eventinfo-followup"

// OutcomeKind classifies what a turn produced.
type OutcomeKind string

const (
	OutcomeWelcome          OutcomeKind = "welcome"
	OutcomeAsk              OutcomeKind = "ask"
	OutcomeTerminate        OutcomeKind = "terminate"
	OutcomeConfirm          OutcomeKind = "confirm"
	OutcomeCommitted        OutcomeKind = "committed"
	OutcomeFailed           OutcomeKind = "failed"
	OutcomeDeclined         OutcomeKind = "declined"
	OutcomeNothingToConfirm OutcomeKind = "nothing_to_confirm"
	OutcomeRestart          OutcomeKind = "restart"
)

// Turn is one inbound exchange.
type Turn struct {
	SessionID  string
	ResponseID string
	Intent     string
	Parameters model.ParameterSet
	Provenance model.Provenance
}

// Outcome is the result of a turn.
type Outcome struct {
	Kind OutcomeKind
	Text string
	// Field is the field asked for by OutcomeAsk.
	Field model.Field
	// Restart asks the transport to jump back to the welcome entry point.
	Restart bool
	// Summary is set by OutcomeConfirm.
	Summary *Summary
	// RecordID is set by OutcomeCommitted only.
	RecordID string
}

// Assembler builds the record committed on confirmation.
type Assembler interface {
	Assemble(known model.ParameterSet, prov model.Provenance) (model.EventRecord, error)
}

// Committer stores records. Commit must not write twice for the same
// non-empty key; Committed returns the record stored under key.
type Committer interface {
	Commit(ctx context.Context, key string, rec model.EventRecord) error
	Committed(key string) (model.EventRecord, bool)
}

// PlaceResolver resolves raw city text.
type PlaceResolver interface {
	Lookup(raw string) model.Place
}

// Controller is the report state machine. It holds no per-conversation
// state: the caller passes the ConversationState in and stores the one
// returned. Turns of one conversation are assumed to arrive sequentially;
// the upstream session model guarantees it and Controller does not lock.
type Controller struct {
	policy     *Policy
	normalizer *normalize.Normalizer
	places     PlaceResolver
	assembler  Assembler
	committer  Committer
	lifespan   int
	logger     *logger.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy replaces the default slot policy.
func WithPolicy(p *Policy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithLifespan sets the number of turns an in-progress report survives.
func WithLifespan(turns int) Option {
	return func(c *Controller) {
		if turns > 0 {
			c.lifespan = turns
		}
	}
}

// WithLogger sets the logger used for assembly and commit failures.
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a controller.
func NewController(n *normalize.Normalizer, places PlaceResolver, a Assembler, cm Committer, opts ...Option) *Controller {
	c := &Controller{
		policy:     DefaultPolicy(),
		normalizer: n,
		places:     places,
		assembler:  a,
		committer:  cm,
		lifespan:   DefaultLifespan,
		logger:     logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handle runs one turn against state and returns the outcome with the state
// to carry into the next turn.
func (c *Controller) Handle(ctx context.Context, state model.ConversationState, turn Turn) (Outcome, model.ConversationState) {
	switch turn.Intent {
	case model.IntentWelcome:
		return Outcome{Kind: OutcomeWelcome, Text: Welcome()}, state.Reset()
	case model.IntentEventInfo:
		return c.fill(state, turn)
	case model.IntentConfirm:
		return c.confirm(ctx, state, turn)
	case model.IntentDecline:
		return Outcome{Kind: OutcomeDeclined, Text: Declined()}, state.Reset()
	default:
		// end_session and anything unrecognized restart the conversation.
		return Outcome{Kind: OutcomeRestart, Restart: true}, state.Reset()
	}
}

func (c *Controller) fill(state model.ConversationState, turn Turn) (Outcome, model.ConversationState) {
	known := state.Known.Merge(turn.Parameters)
	known, dropped := c.normalizer.Sanitize(known)

	action := c.policy.Next(known)
	switch action.Kind {
	case ActionTerminate:
		next := state.Reset()
		next.Stage = model.StageTerminated
		return Outcome{Kind: OutcomeTerminate, Text: action.Message}, next

	case ActionAsk:
		state.Known = known
		state.Stage = model.StageAwaitingField
		if action.Field == model.FieldEventType {
			state.Stage = model.StageAwaitingType
		}
		state.Pending = action.Field
		state.Lifespan = c.lifespan
		state.FollowUp = ""

		text := action.Prompt
		if slices.Contains(dropped, action.Field) {
			text = Retry(action.Prompt)
		}
		return Outcome{Kind: OutcomeAsk, Field: action.Field, Text: text}, state

	default:
		summary, err := c.summarize(known)
		if err != nil {
			// Sanitize already dropped unparseable values; reaching this is a bug.
			c.logger.Error("failed to summarize complete report", zap.String("session_id", state.SessionID), zap.Error(err))
			return Outcome{Kind: OutcomeFailed, Text: Apology()}, state.Reset()
		}
		state.Known = known
		state.Stage = model.StageAwaitingConfirmation
		state.Pending = ""
		state.Lifespan = c.lifespan
		state.FollowUp = ContextFollowUp
		return Outcome{Kind: OutcomeConfirm, Text: Confirm(summary), Summary: &summary}, state
	}
}

func (c *Controller) confirm(ctx context.Context, state model.ConversationState, turn Turn) (Outcome, model.ConversationState) {
	key := idempotencyKey(turn)
	if key != "" {
		if rec, ok := c.committer.Committed(key); ok {
			return Outcome{Kind: OutcomeCommitted, Text: ThankYou(normalize.Contact(model.Category(rec.Type))), RecordID: rec.ID}, state.Reset()
		}
	}

	// The confirmation turn only carries yes/no; the report comes from state.
	if state.Stage != model.StageAwaitingConfirmation || c.policy.Next(state.Known).Kind != ActionComplete {
		return Outcome{Kind: OutcomeNothingToConfirm, Text: NothingToConfirm(), Restart: true}, state.Reset()
	}

	rec, err := c.assembler.Assemble(state.Known, turn.Provenance)
	if err != nil {
		c.logger.Error("failed to assemble record", zap.String("session_id", turn.SessionID), zap.Error(err))
		return Outcome{Kind: OutcomeFailed, Text: Apology()}, state.Reset()
	}
	if err := c.committer.Commit(ctx, key, rec); err != nil {
		c.logger.Error("failed to commit record", zap.String("session_id", turn.SessionID), zap.Error(err))
		return Outcome{Kind: OutcomeFailed, Text: Apology()}, state.Reset()
	}

	return Outcome{
		Kind:     OutcomeCommitted,
		Text:     ThankYou(normalize.Contact(model.Category(rec.Type))),
		RecordID: rec.ID,
	}, state.Reset()
}

func (c *Controller) summarize(known model.ParameterSet) (Summary, error) {
	date, err := c.normalizer.CleanDate(known.Get(model.FieldEventDate))
	if err != nil {
		return Summary{}, err
	}
	count, err := c.normalizer.Count(known.Get(model.FieldEventCount))
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Name:        known.Get(model.FieldCoordinatorName),
		Type:        known.Get(model.FieldEventType),
		Count:       count,
		Date:        date,
		Institution: known.Get(model.FieldInstitution),
		City:        c.places.Lookup(known.Get(model.FieldCity)).City,
	}, nil
}

// ErrNoSession is returned for turns without a session id.
var ErrNoSession = errors.New("turn has no session")

// Validate checks the fields every turn must carry.
func (t Turn) Validate() error {
	if t.SessionID == "" {
		return ErrNoSession
	}
	if t.Intent == "" {
		return fmt.Errorf("session %s: turn has no intent", t.SessionID)
	}
	return nil
}

func idempotencyKey(t Turn) string {
	if t.ResponseID == "" {
		return ""
	}
	return t.SessionID + "/" + t.ResponseID
}
