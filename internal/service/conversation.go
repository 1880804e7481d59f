// Package service runs conversation turns against stored state.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hfn-events/event-report-bot/internal/dialogue"
	"github.com/hfn-events/event-report-bot/internal/model"
	"github.com/hfn-events/event-report-bot/internal/session"
	"github.com/hfn-events/event-report-bot/pkg/logger"
	"github.com/hfn-events/event-report-bot/pkg/metrics"
)

// Reply is the handled turn: what to say and the state now in effect.
type Reply struct {
	Outcome dialogue.Outcome
	State   model.ConversationState
}

// ConversationService loads the state of a conversation, runs the dialogue
// controller and stores the resulting state.
type ConversationService struct {
	controller *dialogue.Controller
	sessions   session.Store
	logger     *logger.Logger
	now        func() time.Time
}

// NewConversationService creates a new conversation service.
func NewConversationService(controller *dialogue.Controller, sessions session.Store, log *logger.Logger) *ConversationService {
	return &ConversationService{
		controller: controller,
		sessions:   sessions,
		logger:     log,
		now:        time.Now,
	}
}

// Handle runs one turn.
func (s *ConversationService) Handle(ctx context.Context, turn dialogue.Turn) (*Reply, error) {
	if err := turn.Validate(); err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("session_id", turn.SessionID), zap.String("intent", turn.Intent))

	state, err := session.LoadOrNew(ctx, s.sessions, turn.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	state, expired := state.Tick()
	if expired {
		log.Info("conversation expired")
	}

	outcome, next := s.controller.Handle(ctx, state, turn)
	next.UpdatedAt = s.now().UTC()

	if next.Active() {
		if err := s.sessions.Save(ctx, next); err != nil {
			return nil, fmt.Errorf("failed to save conversation: %w", err)
		}
	} else if err := s.sessions.Delete(ctx, turn.SessionID); err != nil {
		log.Warn("failed to clear conversation", zap.Error(err))
	}

	metrics.RecordTurn(intentLabel(turn.Intent), string(outcome.Kind))
	log.Info("turn handled",
		zap.String("outcome", string(outcome.Kind)),
		zap.String("field", string(outcome.Field)),
		zap.String("stage", string(next.Stage)),
	)

	return &Reply{Outcome: outcome, State: next}, nil
}

// Get returns the stored state of a conversation.
func (s *ConversationService) Get(ctx context.Context, sessionID string) (*model.ConversationState, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Reset clears a conversation.
func (s *ConversationService) Reset(ctx context.Context, sessionID string) error {
	if _, err := s.sessions.Load(ctx, sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to load conversation: %w", err)
	}
	return s.sessions.Delete(ctx, sessionID)
}

// intentLabel maps unrouted intents to a single label value.
func intentLabel(intent string) string {
	switch intent {
	case model.IntentWelcome, model.IntentEventInfo, model.IntentConfirm, model.IntentDecline, model.IntentEndSession:
		return intent
	default:
		return "other"
	}
}
