// Package memory provides an in-process session store used for development
// and tests. Sessions are cloned on read so callers can never mutate the
// stored state without going through the store.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"pulse-agent-service/internal/domain/session"
	xerrors "pulse-agent-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
)

type key struct {
	appName string
	userID  string
	id      string
}

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[key]*session.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[key]*session.Session)}
}

var _ session.Store = (*SessionStore)(nil)

func (s *SessionStore) Create(ctx context.Context, appName, userID string, state map[string]interface{}) (*session.Session, error) {
	if state == nil {
		state = map[string]interface{}{}
	}
	now := time.Now().UTC()
	sess := &session.Session{
		AppName:   appName,
		UserID:    userID,
		ID:        ulid.Make().String(),
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key{appName, userID, sess.ID}] = clone(sess)
	return sess, nil
}

func (s *SessionStore) Get(ctx context.Context, appName, userID, id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[key{appName, userID, id}]
	if !ok {
		return nil, xerrors.Wrapf(xerrors.ErrNotFound, "session %s not found", id)
	}
	return clone(sess), nil
}

func (s *SessionStore) List(ctx context.Context, appName string) ([]*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*session.Session
	for k, sess := range s.sessions {
		if k.appName == appName {
			out = append(out, clone(sess))
		}
	}
	return out, nil
}

// AppendEntry appends one history entry. A missing session is bootstrapped
// with just the entry, so an append racing a delete still lands.
func (s *SessionStore) AppendEntry(ctx context.Context, appName, userID, id string, entry session.Entry) error {
	entry.EnsureTimestamp(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	sess, ok := s.sessions[key{appName, userID, id}]
	if !ok {
		sess = &session.Session{
			AppName:   appName,
			UserID:    userID,
			ID:        id,
			State:     map[string]interface{}{},
			CreatedAt: now,
		}
		s.sessions[key{appName, userID, id}] = sess
	}
	history, _ := sess.State[session.StateHistory].([]interface{})
	sess.State[session.StateHistory] = append(history, map[string]interface{}(entry))
	sess.UpdatedAt = now
	return nil
}

func (s *SessionStore) ClearState(ctx context.Context, appName, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key{appName, userID, id}]
	if !ok {
		return xerrors.Wrapf(xerrors.ErrNotFound, "session %s not found", id)
	}
	sess.State = map[string]interface{}{}
	sess.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, appName, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{appName, userID, id}
	if _, ok := s.sessions[k]; !ok {
		return xerrors.Wrapf(xerrors.ErrNotFound, "session %s not found", id)
	}
	delete(s.sessions, k)
	return nil
}

// clone deep-copies a session through JSON so stored state and returned state
// share no references.
func clone(sess *session.Session) *session.Session {
	raw, err := json.Marshal(sess.State)
	if err != nil {
		// State always originates from JSON-compatible values.
		panic(err)
	}
	var state map[string]interface{}
	if err := json.Unmarshal(raw, &state); err != nil {
		panic(err)
	}
	out := *sess
	out.State = state
	return &out
}
