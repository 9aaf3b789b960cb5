package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/instrumentation"
	"github.com/teemow/meeting-mcp/internal/session"
)

const (
	// DefaultSessionTimeout is how long an idle session's state is kept.
	DefaultSessionTimeout = 24 * time.Hour

	sessionCleanupInterval = 10 * time.Minute
)

// ErrNoAPIKeyHeader is returned when a request carries neither the API key
// header nor a Bearer token.
var ErrNoAPIKeyHeader = errors.New("no API key header")

type sessionEntry struct {
	state      session.State
	lastAccess time.Time
}

// SessionRegistry keeps the latest State per MCP session id and drops
// sessions idle for longer than the timeout.
type SessionRegistry struct {
	mu          sync.RWMutex
	sessions    map[string]*sessionEntry
	timeout     time.Duration
	metrics     *instrumentation.Metrics
	now         func() time.Time
	stopOnce    sync.Once
	cleanupDone chan struct{}
}

// NewSessionRegistry starts a registry with the default timeout.
func NewSessionRegistry() *SessionRegistry {
	return NewSessionRegistryWithTimeout(DefaultSessionTimeout)
}

// NewSessionRegistryWithTimeout starts a registry and its cleanup loop.
func NewSessionRegistryWithTimeout(timeout time.Duration) *SessionRegistry {
	r := &SessionRegistry{
		sessions:    make(map[string]*sessionEntry),
		timeout:     timeout,
		now:         time.Now,
		cleanupDone: make(chan struct{}),
	}
	go r.cleanupLoop()
	return r
}

// SetMetrics enables the active session gauge.
func (r *SessionRegistry) SetMetrics(m *instrumentation.Metrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
}

// Get returns the state of a session, or the zero State.
func (r *SessionRegistry) Get(id string) session.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return session.State{}
	}
	e.lastAccess = r.now()
	return e.state
}

// Put replaces the state of a session.
func (r *SessionRegistry) Put(id string, st session.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok {
		e.state = st
		e.lastAccess = r.now()
		return
	}
	r.sessions[id] = &sessionEntry{state: st, lastAccess: r.now()}
	r.metrics.IncrementActiveSessions(context.Background())
}

// Remove forgets a session.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		delete(r.sessions, id)
		r.metrics.DecrementActiveSessions(context.Background())
	}
}

// Len returns the number of tracked sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the tracked session ids.
func (r *SessionRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (r *SessionRegistry) Stop() {
	r.stopOnce.Do(func() { close(r.cleanupDone) })
}

func (r *SessionRegistry) cleanupLoop() {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.expire()
		case <-r.cleanupDone:
			return
		}
	}
}

func (r *SessionRegistry) expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.timeout)
	removed := 0
	for id, e := range r.sessions {
		if e.lastAccess.Before(cutoff) {
			delete(r.sessions, id)
			r.metrics.DecrementActiveSessions(context.Background())
			removed++
		}
	}
	return removed
}

// APIKeyFromRequest reads the caller's Meeting BaaS key from the dedicated
// header, falling back to an Authorization Bearer token.
func APIKeyFromRequest(r *http.Request) (string, error) {
	if key := strings.TrimSpace(r.Header.Get(baas.APIKeyHeader)); key != "" {
		return key, nil
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			return token, nil
		}
	}
	return "", ErrNoAPIKeyHeader
}

// HTTPContextFunc copies the request's API key into the context seen by
// tool handlers.
func HTTPContextFunc(ctx context.Context, r *http.Request) context.Context {
	key, err := APIKeyFromRequest(r)
	if err != nil {
		return ctx
	}
	return session.NewContext(ctx, session.State{APIKey: key})
}
