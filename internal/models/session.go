package models

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iboying/activestore/pkg/attrs"
	"github.com/iboying/activestore/pkg/logging"
	"github.com/iboying/activestore/pkg/persist"
	"github.com/iboying/activestore/pkg/store"
)

// SessionModule is the persisted module holding the session.
const SessionModule = "session"

// sessionKey is the field of the module state holding the session.
const sessionKey = "session"

// SessionStore is a store for the Session model whose current session is
// restored from and written back to a persistence backend.
type SessionStore struct {
	*store.Store[SessionRecord]

	backend persist.Backend
	key     string
	logger  *slog.Logger

	mu      sync.RWMutex
	session SessionRecord
}

// NewSessionStore restores the session persisted under key and returns a
// store bound to the Session blueprint. Whenever the store loads a session
// record, it becomes the current session and is persisted.
func NewSessionStore(ctx context.Context, backend persist.Backend, key string, logger *slog.Logger, opts ...store.Option) (*SessionStore, error) {
	state, err := persist.ModuleState(ctx, backend, key, SessionModule)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	var session SessionRecord
	if raw, ok := state[sessionKey]; ok {
		if a, isObj := raw.(map[string]any); isObj {
			if err := attrs.Into(a, &session); err != nil {
				return nil, fmt.Errorf("restore session: %w", err)
			}
		}
	}

	logger = logging.OrNop(logger)
	opts = append([]store.Option{store.WithBlueprint(Session), store.WithLogger(logger)}, opts...)
	s := &SessionStore{
		Store:   store.New[SessionRecord](opts...),
		backend: backend,
		key:     key,
		logger:  logger,
		session: session,
	}
	s.Subscribe(s.sync)
	return s, nil
}

// Current returns the current session.
func (s *SessionStore) Current() SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// SignedIn reports whether a session is present.
func (s *SessionStore) SignedIn() bool {
	return s.Current() != SessionRecord{}
}

// Set replaces the current session and persists it.
func (s *SessionStore) Set(ctx context.Context, session SessionRecord) error {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return s.save(ctx, session)
}

// Clear forgets the session, resets the store and removes the persisted
// module.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.session = SessionRecord{}
	s.mu.Unlock()
	s.Reset()
	return persist.ClearModuleState(ctx, s.backend, s.key, SessionModule)
}

func (s *SessionStore) sync(st store.State[SessionRecord]) {
	if !st.HasRecord {
		return
	}
	s.mu.Lock()
	changed := s.session != st.Record
	s.session = st.Record
	s.mu.Unlock()
	if !changed {
		return
	}
	if err := s.save(context.Background(), st.Record); err != nil {
		s.logger.Error("failed to persist session", "error", err)
	}
}

func (s *SessionStore) save(ctx context.Context, session SessionRecord) error {
	if err := persist.SaveModuleState(ctx, s.backend, s.key, SessionModule, map[string]any{sessionKey: session}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.logger.Debug("session persisted", "key", s.key, "id", session.ID)
	return nil
}
