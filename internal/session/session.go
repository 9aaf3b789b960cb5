// Package session holds the per-client state of an MCP session.
//
// State is a value. Operations that change it return a new State, and the
// server stores the latest one per session id.
package session

import (
	"context"
	"slices"
)

// MaxRecentBots caps the recent bot list kept on a session.
const MaxRecentBots = 10

// State is what the server remembers about one client session.
type State struct {
	// APIKey is the meeting API key supplied by the client, if any.
	APIKey string
	// RecentBotIDs lists bots used in this session, most recent first.
	RecentBotIDs []string
}

// WithAPIKey returns a copy of s using key.
func (s State) WithAPIKey(key string) State {
	s.RecentBotIDs = slices.Clone(s.RecentBotIDs)
	s.APIKey = key
	return s
}

// WithRecentBot returns a copy of s with botID moved to the front of the
// recent list. The receiver is left untouched.
func (s State) WithRecentBot(botID string) State {
	if botID == "" {
		s.RecentBotIDs = slices.Clone(s.RecentBotIDs)
		return s
	}
	ids := make([]string, 0, min(len(s.RecentBotIDs)+1, MaxRecentBots))
	ids = append(ids, botID)
	for _, id := range s.RecentBotIDs {
		if len(ids) == MaxRecentBots {
			break
		}
		if id != botID {
			ids = append(ids, id)
		}
	}
	s.RecentBotIDs = ids
	return s
}

// LastBot returns the most recently used bot id.
func (s State) LastBot() (string, bool) {
	if len(s.RecentBotIDs) == 0 {
		return "", false
	}
	return s.RecentBotIDs[0], true
}

type contextKey struct{}

type idKey struct{}

// NewContext stores s in ctx.
func NewContext(ctx context.Context, s State) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the state stored in ctx, or the zero State.
func FromContext(ctx context.Context) State {
	s, _ := ctx.Value(contextKey{}).(State)
	return s
}

// WithID stores the transport session id in ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// IDFromContext returns the transport session id, or "" when unknown.
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(idKey{}).(string)
	return id
}
