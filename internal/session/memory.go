package session

import (
	"context"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/hfn-events/event-report-bot/internal/model"
)

// MemoryStore keeps state in process memory. It suits a single replica.
type MemoryStore struct {
	items *cache.Cache
}

// NewMemoryStore creates a store whose entries expire after ttl of
// inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{items: cache.New(ttl, ttl)}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (model.ConversationState, error) {
	v, ok := s.items.Get(sessionID)
	if !ok {
		return model.ConversationState{}, ErrNotFound
	}
	state := v.(model.ConversationState)
	state.Known = state.Known.Clone()
	return state, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, state model.ConversationState) error {
	state.Known = state.Known.Clone()
	s.items.SetDefault(state.SessionID, state)
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.items.Delete(sessionID)
	return nil
}
