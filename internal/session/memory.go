package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. States are stored as JSON so a
// caller can never hold a reference into the store, same as with Redis.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
	expires  map[string]time.Time
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

type MemoryOption func(*MemoryStore)

// WithNow sets the clock used to judge expiry. It should be the same clock
// that stamps ExpiresAt on new sessions.
func WithNow(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		sessions: map[string][]byte{},
		expires:  map[string]time.Time{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryStore) Create(_ context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	if _, exists := m.sessions[state.ID]; exists {
		return fmt.Errorf("session %s: %w", state.ID, ErrConflict)
	}
	m.sessions[state.ID] = payload
	m.expires[state.ID] = state.ExpiresAt
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(id)
}

func (m *MemoryStore) Update(_ context.Context, id string, fn UpdateFunc) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.loadLocked(id)
	if err != nil {
		return State{}, err
	}
	next, err := fn(current)
	if err != nil {
		return State{}, err
	}
	next.ID = current.ID
	next.ExpiresAt = current.ExpiresAt

	payload, err := json.Marshal(next)
	if err != nil {
		return State{}, fmt.Errorf("encode session: %w", err)
	}
	m.sessions[id] = payload
	return next, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.expires, id)
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	return len(m.sessions)
}

func (m *MemoryStore) loadLocked(id string) (State, error) {
	payload, ok := m.sessions[id]
	if !ok || m.expiredLocked(id) {
		delete(m.sessions, id)
		delete(m.expires, id)
		return State{}, ErrSessionNotFound
	}
	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	return state, nil
}

func (m *MemoryStore) expiredLocked(id string) bool {
	at, ok := m.expires[id]
	return ok && expired(at, m.now())
}

func (m *MemoryStore) sweepLocked() {
	for id := range m.sessions {
		if m.expiredLocked(id) {
			delete(m.sessions, id)
			delete(m.expires, id)
		}
	}
}
