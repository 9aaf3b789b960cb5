// Package toolstest builds a ServerContext against a fake meeting API for
// the tool package tests.
package toolstest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/links"
	"github.com/teemow/meeting-mcp/internal/recent"
	"github.com/teemow/meeting-mcp/internal/server"
	"github.com/teemow/meeting-mcp/internal/session"
)

// ViewerURL is the viewer base used by contexts built here.
const ViewerURL = "https://viewer.example.com"

// SessionID is the session every Context call runs in.
const SessionID = "test-session"

// NewServerContext serves api as the meeting API and tracks bots in a
// temporary SQLite database.
func NewServerContext(t *testing.T, api http.Handler) *server.ServerContext {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	store, err := recent.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "recent.db"))
	require.NoError(t, err)

	sc, err := server.NewServerContext(context.Background(), server.Dependencies{
		Client:  baas.NewClient(srv.URL, baas.StaticKey("test-key"), baas.WithHTTPClient(srv.Client())),
		Tracker: recent.NewTracker(store, recent.BackendSQLite, nil, nil),
		Links:   links.NewBuilder(ViewerURL),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

// Context returns a context bound to SessionID.
func Context() context.Context {
	return session.WithID(context.Background(), SessionID)
}

// Request builds a tool call.
func Request(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// Text concatenates the text content of a result.
func Text(result *mcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// MeetingJSON is a meeting data response with three turns.
const MeetingJSON = `{
  "bot_data": {
    "bot": {"bot_name": "Weekly sync", "meeting_url": "https://meet.example.com/abc", "created_at": "2025-03-01T10:00:00Z"},
    "transcripts": [
      {"speaker": "Alice", "start_time": 0, "words": [{"text": "Let's"}, {"text": "start"}, {"text": "the"}, {"text": "meeting"}]},
      {"speaker": "Bob", "start_time": 20, "words": [{"text": "I"}, {"text": "think"}, {"text": "the"}, {"text": "budget"}, {"text": "is"}, {"text": "a"}, {"text": "key"}, {"text": "issue"}, {"text": "we"}, {"text": "must"}, {"text": "resolve"}]},
      {"speaker": "Alice", "start_time": 600, "words": [{"text": "In"}, {"text": "conclusion,"}, {"text": "thanks"}, {"text": "everyone"}]}
    ]
  },
  "mp4": "https://files.example.com/bot-1.mp4",
  "duration": 605
}`

// MeetingAPI answers meeting data requests with MeetingJSON and 404s
// everything else.
func MeetingAPI() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bots/meeting_data" && r.URL.Query().Get("bot_id") != "missing" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(MeetingJSON))
			return
		}
		http.Error(w, `{"message":"bot not found"}`, http.StatusNotFound)
	}
}
