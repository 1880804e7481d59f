// Package session stores the conversation state between turns.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/hfn-events/event-report-bot/internal/model"
)

// ErrNotFound is returned when a session has no stored state.
var ErrNotFound = errors.New("session not found")

// DefaultTTL bounds how long an idle conversation is kept.
const DefaultTTL = 30 * time.Minute

// Store loads and saves conversation state by session id.
type Store interface {
	Load(ctx context.Context, sessionID string) (model.ConversationState, error)
	Save(ctx context.Context, state model.ConversationState) error
	Delete(ctx context.Context, sessionID string) error
}

// LoadOrNew returns the stored state of sessionID, or a fresh one when none
// is stored.
func LoadOrNew(ctx context.Context, s Store, sessionID string) (model.ConversationState, error) {
	state, err := s.Load(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return model.NewConversationState(sessionID), nil
	}
	if err != nil {
		return model.ConversationState{}, err
	}
	if state.Known == nil {
		state.Known = model.ParameterSet{}
	}
	return state, nil
}
