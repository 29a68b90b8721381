package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/snapshot"
)

// SessionManager tracks live sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	config *Config
	logger *slog.Logger
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(config *Config) *SessionManager {
	config = config.withDefaults()
	return &SessionManager{
		sessions: make(map[string]*Session),
		config:   config,
		logger:   config.Logger.With("component", "sessions"),
	}
}

// Create opens a session. An empty id gets a fresh UUID. For a given id
// with a stored snapshot, the snapshot is rendered into the new session
// and restored is true.
func (sm *SessionManager) Create(ctx context.Context, id string) (sess *Session, restored bool, err error) {
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, false, errors.New("E160").WithDetailf("invalid session id %q", id).Wrap(err)
	}

	sm.mu.RLock()
	_, exists := sm.sessions[id]
	sm.mu.RUnlock()
	if exists {
		return nil, false, opFailed(id, "create", ErrSessionExists)
	}

	sess, err = newSession(id, sm.config)
	if err != nil {
		return nil, false, err
	}

	if store := sm.config.Store; store != nil {
		tree, err := store.Load(ctx, id)
		switch {
		case err == nil:
			if _, err := sess.Render(ctx, tree); err != nil {
				return nil, false, err
			}
			restored = true
		case stderrors.Is(err, snapshot.ErrNotFound):
		default:
			sm.logger.Warn("snapshot restore failed", "session_id", id, "error", err)
		}
	}

	sm.mu.Lock()
	if _, exists := sm.sessions[id]; exists {
		sm.mu.Unlock()
		return nil, false, opFailed(id, "create", ErrSessionExists)
	}
	sm.sessions[id] = sess
	sm.mu.Unlock()

	sm.config.Metrics.RecordSessionOpen()
	sm.logger.Info("session created", "session_id", id, "restored", restored)
	return sess, restored, nil
}

// Get returns the live session with id.
func (sm *SessionManager) Get(id string) (*Session, error) {
	sm.mu.RLock()
	sess, ok := sm.sessions[id]
	sm.mu.RUnlock()
	if !ok {
		return nil, errors.New("E160").WithDetailf("no session %q", id).Wrap(ErrSessionNotFound)
	}
	return sess, nil
}

// Close removes the session with id and closes it.
func (sm *SessionManager) Close(ctx context.Context, id string) error {
	sm.mu.Lock()
	sess, ok := sm.sessions[id]
	delete(sm.sessions, id)
	sm.mu.Unlock()
	if !ok {
		return errors.New("E160").WithDetailf("no session %q", id).Wrap(ErrSessionNotFound)
	}

	sess.Close(ctx)
	sm.config.Metrics.RecordSessionClose()
	sm.logger.Info("session closed", "session_id", id, "renders", sess.Renders())
	return nil
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ForEach calls fn for each session until fn returns false.
func (sm *SessionManager) ForEach(fn func(*Session) bool) {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		sessions = append(sessions, sess)
	}
	sm.mu.RUnlock()

	for _, sess := range sessions {
		if !fn(sess) {
			return
		}
	}
}

// Shutdown closes every session. Snapshots are kept so sessions can be
// restored after a restart.
func (sm *SessionManager) Shutdown(ctx context.Context) {
	sm.mu.Lock()
	sessions := sm.sessions
	sm.sessions = make(map[string]*Session)
	sm.mu.Unlock()

	for _, sess := range sessions {
		sess.Close(ctx)
		sm.config.Metrics.RecordSessionClose()
	}
}
