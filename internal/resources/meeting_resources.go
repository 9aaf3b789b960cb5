package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/recent"
	"github.com/teemow/meeting-mcp/internal/server"
)

// Resource URIs.
const (
	RecentBotsURI         = "meeting://recent-bots"
	TranscriptURITemplate = "meeting://bots/{bot_id}/transcript"

	transcriptPrefix = "meeting://bots/"
	transcriptSuffix = "/transcript"
)

// recentBotsLimit caps the recent-bots resource.
const recentBotsLimit = 50

// RegisterMeetingResources registers the meeting resources.
func RegisterMeetingResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	recentBots := mcp.NewResource(
		RecentBotsURI,
		"Recent Bots",
		mcp.WithResourceDescription("Bots used recently on this server, most recent first"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(recentBots, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleRecentBots(ctx, request, sc)
	})

	transcript := mcp.NewResourceTemplate(
		TranscriptURITemplate,
		"Meeting Transcript",
		mcp.WithTemplateDescription("Full transcript of a recorded meeting"),
		mcp.WithTemplateMIMEType("text/plain"),
	)
	s.AddResourceTemplate(transcript, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleTranscript(ctx, request, sc)
	})

	return nil
}

type recentBotsPayload struct {
	Backend string          `json:"backend"`
	Bots    []recent.Record `json:"bots"`
	// SessionBots is filled from the session when the store has nothing.
	SessionBots []string `json:"session_bots,omitempty"`
}

func handleRecentBots(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	_, st := sc.Session(ctx)
	records, err := sc.Tracker().Recent(ctx, recent.OrderRecent, recentBotsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent bots: %w", err)
	}

	payload := recentBotsPayload{Backend: sc.Tracker().Backend(), Bots: records}
	if payload.Bots == nil {
		payload.Bots = []recent.Record{}
	}
	if len(records) == 0 {
		payload.SessionBots = st.RecentBotIDs
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recent bots: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func handleTranscript(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	botID, err := transcriptBotID(request.Params.URI)
	if err != nil {
		return nil, err
	}

	ctx, st := sc.Session(ctx)
	page, next, err := sc.Insights().Transcript(ctx, st, botID, 0, math.MaxInt)
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript for %s: %w", botID, err)
	}
	sc.UpdateSession(ctx, next)

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     page.Text(),
		},
	}, nil
}

// transcriptBotID extracts bot_id from a transcript URI.
func transcriptBotID(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, transcriptPrefix)
	if ok {
		rest, ok = strings.CutSuffix(rest, transcriptSuffix)
	}
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", fmt.Errorf("invalid transcript URI %q, expected %s", uri, TranscriptURITemplate)
	}
	return rest, nil
}
