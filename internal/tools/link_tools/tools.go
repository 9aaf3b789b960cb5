package link_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/links"
	"github.com/teemow/meeting-mcp/internal/server"
	"github.com/teemow/meeting-mcp/internal/tools/common"
)

// maxSegments bounds a single share.
const maxSegments = 50

// RegisterLinkTools registers the link tools. They never modify anything
// upstream and are available in read-only mode.
func RegisterLinkTools(s *mcpserver.MCPServer, sc *server.ServerContext, _ bool) error {
	shareSegmentsTool := mcp.NewTool("share_meeting_segments",
		mcp.WithDescription("Create a shareable list of timestamped links into a meeting recording"),
		mcp.WithString("bot_id",
			mcp.Description("Bot ID of the recording. Defaults to the last bot used in this session."),
		),
		mcp.WithArray("segments",
			mcp.Required(),
			mcp.Description("Moments to share, each with a timestamp in seconds (or MM:SS) and a description"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"timestamp":   map[string]any{"type": []string{"number", "string"}},
					"description": map[string]any{"type": "string"},
				},
				"required": []string{"timestamp"},
			}),
		),
		mcp.WithString("title",
			mcp.Description("Heading of the shared list"),
		),
	)
	s.AddTool(shareSegmentsTool, common.InstrumentedToolHandler("share_meeting_segments", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleShareMeetingSegments(ctx, request, sc)
		}))

	shareRecordingTool := mcp.NewTool("share_recording",
		mcp.WithDescription("Create a shareable link to a meeting recording, optionally starting at a timestamp"),
		mcp.WithString("bot_id",
			mcp.Description("Bot ID of the recording. Defaults to the last bot used in this session."),
		),
		mcp.WithString("timestamp",
			mcp.Description("Start playback here, in seconds or MM:SS"),
		),
		mcp.WithString("title",
			mcp.Description("Label for the link"),
		),
	)
	s.AddTool(shareRecordingTool, common.InstrumentedToolHandler("share_recording", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleShareRecording(ctx, request, sc)
		}))

	return nil
}

func handleShareMeetingSegments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ctx, st := sc.Session(ctx)
	botID, err := common.BotID(request, st)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	segments, err := parseSegments(request.GetArguments()["segments"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	share := links.NewShare(botID, strings.TrimSpace(request.GetString("title", "")), segments)
	sc.UpdateSession(ctx, st.WithRecentBot(botID))
	return mcp.NewToolResultText(sc.Links().Render(share)), nil
}

func handleShareRecording(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ctx, st := sc.Session(ctx)
	botID, err := common.BotID(request, st)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	link := sc.Links().Recording(botID)
	label := "Recording"
	if raw, ok := request.GetArguments()["timestamp"]; ok && raw != nil && raw != "" {
		seconds, err := parseTimestamp(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		link = sc.Links().At(botID, seconds)
		label = "Recording at " + links.FormatTimestamp(seconds)
	}
	if title := strings.TrimSpace(request.GetString("title", "")); title != "" {
		label = title
	}

	sc.UpdateSession(ctx, st.WithRecentBot(botID))
	return mcp.NewToolResultText(fmt.Sprintf("%s: %s", label, link)), nil
}

// parseSegments accepts the decoded array or the same array as a JSON string.
func parseSegments(raw any) ([]links.SegmentRef, error) {
	if s, ok := raw.(string); ok {
		var decoded []any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, fmt.Errorf("segments must be an array of {timestamp, description} objects")
		}
		raw = decoded
	}

	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("segments must be a non-empty array")
	}
	if len(items) > maxSegments {
		return nil, fmt.Errorf("too many segments: %d (max %d)", len(items), maxSegments)
	}

	refs := make([]links.SegmentRef, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("segment %d must be an object", i+1)
		}
		seconds, err := parseTimestamp(obj["timestamp"])
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i+1, err)
		}
		desc, _ := obj["description"].(string)
		refs = append(refs, links.SegmentRef{Timestamp: seconds, Description: strings.TrimSpace(desc)})
	}
	return refs, nil
}

// parseTimestamp reads seconds as a number, a numeric string, or MM:SS and
// HH:MM:SS clock text.
func parseTimestamp(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("timestamp must not be negative")
		}
		return v, nil
	case int:
		return parseTimestamp(float64(v))
	case string:
		v = strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return parseTimestamp(f)
		}
		parts := strings.Split(v, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return 0, fmt.Errorf("invalid timestamp %q, use seconds or MM:SS", v)
		}
		total := 0
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("invalid timestamp %q, use seconds or MM:SS", v)
			}
			total = total*60 + n
		}
		return float64(total), nil
	case nil:
		return 0, fmt.Errorf("timestamp is required")
	default:
		return 0, fmt.Errorf("invalid timestamp %v", raw)
	}
}
