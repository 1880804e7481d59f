// Package model defines data structures for the event report conversation.
package model

import (
	"time"
)

// Stage is the position of a conversation in the report dialogue.
type Stage string

const (
	StageAwaitingType         Stage = "awaiting_type"
	StageAwaitingField        Stage = "awaiting_field"
	StageAwaitingConfirmation Stage = "awaiting_confirmation"
	StageTerminated           Stage = "terminated"
)

// FollowUpWelcome is the follow-up event that restarts the conversation.
const FollowUpWelcome = "Welcome"

// ConversationState is the state carried between turns of one conversation.
// It is passed into and returned from every controller invocation; storing
// it between turns is the caller's job.
type ConversationState struct {
	SessionID string       `json:"session_id"`
	Stage     Stage        `json:"stage"`
	Pending   Field        `json:"pending_field,omitempty"`
	Known     ParameterSet `json:"known"`
	// Lifespan is the number of turns left before the state expires.
	Lifespan int `json:"lifespan"`
	// FollowUp forces the next turn to a specific entry point.
	FollowUp  string    `json:"follow_up,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversationState returns the initial state for a session.
func NewConversationState(sessionID string) ConversationState {
	return ConversationState{
		SessionID: sessionID,
		Stage:     StageAwaitingType,
		Known:     ParameterSet{},
	}
}

// Reset clears every collected value and returns to the initial stage.
func (s ConversationState) Reset() ConversationState {
	return NewConversationState(s.SessionID)
}

// Tick consumes one turn of lifespan. It reports true when the state had
// already run out of turns, in which case the returned state is reset.
func (s ConversationState) Tick() (ConversationState, bool) {
	if s.Stage == StageAwaitingType && len(s.Known) == 0 {
		return s, false
	}
	if s.Lifespan <= 0 {
		return s.Reset(), true
	}
	s.Lifespan--
	return s, false
}

// Active reports whether the state carries anything worth storing.
func (s ConversationState) Active() bool {
	return len(s.Known) > 0 || s.Stage == StageAwaitingConfirmation || s.FollowUp != ""
}
