package server

import (
	"context"
	"errors"
	"sync"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/insights"
	"github.com/teemow/meeting-mcp/internal/instrumentation"
	"github.com/teemow/meeting-mcp/internal/links"
	"github.com/teemow/meeting-mcp/internal/recent"
	"github.com/teemow/meeting-mcp/internal/session"
)

// DefaultSessionID keys the state of clients without a transport session.
const DefaultSessionID = "default"

// Dependencies are the collaborators a ServerContext is built from.
type Dependencies struct {
	Client   *baas.Client
	Insights *insights.Service
	Tracker  *recent.Tracker
	Links    links.Builder
	Sessions *SessionRegistry
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	client      *baas.Client
	insights    *insights.Service
	tracker     *recent.Tracker
	links       links.Builder
	sessions    *SessionRegistry
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, deps Dependencies) (*ServerContext, error) {
	if deps.Client == nil {
		return nil, errors.New("meeting api client is required")
	}
	if deps.Insights == nil {
		deps.Insights = insights.NewService(insights.Config{
			Fetcher: deps.Client,
			Links:   deps.Links,
			Tracker: deps.Tracker,
		})
	}
	if deps.Links == (links.Builder{}) {
		deps.Links = deps.Insights.Links()
	}
	if deps.Sessions == nil {
		deps.Sessions = NewSessionRegistry()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		client:   deps.Client,
		insights: deps.Insights,
		tracker:  deps.Tracker,
		links:    deps.Links,
		sessions: deps.Sessions,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the meeting API client.
func (sc *ServerContext) Client() *baas.Client {
	return sc.client
}

// Insights returns the meeting analysis service.
func (sc *ServerContext) Insights() *insights.Service {
	return sc.insights
}

// Tracker returns the recent-bots tracker. It may be nil.
func (sc *ServerContext) Tracker() *recent.Tracker {
	return sc.tracker
}

// Links returns the viewer link builder.
func (sc *ServerContext) Links() links.Builder {
	return sc.links
}

// Sessions returns the session registry.
func (sc *ServerContext) Sessions() *SessionRegistry {
	return sc.sessions
}

// SetMetrics sets the metrics instance used for tool instrumentation.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
	sc.sessions.SetMetrics(m)
}

// Metrics returns the metrics instance, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger for tool invocations.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger, or nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SessionID returns the MCP session id of the request in ctx.
func SessionID(ctx context.Context) string {
	if cs := mcpserver.ClientSessionFromContext(ctx); cs != nil && cs.SessionID() != "" {
		return cs.SessionID()
	}
	if id := session.IDFromContext(ctx); id != "" {
		return id
	}
	return DefaultSessionID
}

// Session returns the state of the calling session and a context carrying
// it, so the credential chain sees the session key. A key supplied with the
// current request replaces the stored one.
func (sc *ServerContext) Session(ctx context.Context) (context.Context, session.State) {
	id := SessionID(ctx)
	st := sc.sessions.Get(id)
	if key := session.FromContext(ctx).APIKey; key != "" && key != st.APIKey {
		st = st.WithAPIKey(key)
		sc.sessions.Put(id, st)
	}
	return session.NewContext(session.WithID(ctx, id), st), st
}

// UpdateSession stores the state returned by an operation.
func (sc *ServerContext) UpdateSession(ctx context.Context, st session.State) {
	sc.sessions.Put(SessionID(ctx), st)
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown stops background work and closes the recent-bots store.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	sc.sessions.Stop()
	return sc.tracker.Close()
}
