package httpapi

import (
	"context"
	"sync"
	"time"

	"movemate-admin/internal/auth"
	"movemate-admin/internal/session"
)

type sessionEntry struct {
	sess     *auth.Session
	lastSeen time.Time
}

// sessionRegistry keeps one auth.Session per client so that overlapping
// requests from the same browser see each other's in-flight operations.
type sessionRegistry struct {
	ctrl    *auth.Controller
	storage session.Store

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

func newSessionRegistry(ctrl *auth.Controller, storage session.Store) *sessionRegistry {
	return &sessionRegistry{
		ctrl:    ctrl,
		storage: storage,
		entries: make(map[string]*sessionEntry),
	}
}

// get returns the client's session, synced with durable storage.
func (r *sessionRegistry) get(ctx context.Context, clientID string) (*auth.Session, error) {
	r.mu.Lock()
	e, ok := r.entries[clientID]
	if ok {
		e.lastSeen = time.Now()
	}
	r.mu.Unlock()

	if ok {
		if err := e.sess.Sync(ctx); err != nil {
			return nil, err
		}
		return e.sess, nil
	}

	sess, err := r.ctrl.Open(ctx, r.storage.Durable(clientID))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[clientID]; ok {
		// Lost a race with a concurrent request; keep the first session.
		e.lastSeen = time.Now()
		return e.sess, nil
	}
	r.entries[clientID] = &sessionEntry{sess: sess, lastSeen: time.Now()}
	return sess, nil
}

// Sweep forgets sessions idle for longer than idle and returns how many were
// dropped. Persisted state is untouched.
func (r *sessionRegistry) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) && e.sess.State() != auth.StateLoggingIn && e.sess.State() != auth.StateResetting {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

func (r *sessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
