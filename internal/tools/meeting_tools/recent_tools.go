package meeting_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/recent"
	"github.com/teemow/meeting-mcp/internal/server"
	"github.com/teemow/meeting-mcp/internal/tools/common"
)

const defaultRecentLimit = 10

// RegisterRecentTools registers list_recent_bots.
func RegisterRecentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listRecentTool := mcp.NewTool("list_recent_bots",
		mcp.WithDescription("List the bots used recently on this server, with their meeting details"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of bots to return"),
			mcp.DefaultNumber(defaultRecentLimit),
		),
		mcp.WithString("order",
			mcp.Description("recent (last used first) or accessed (most used first)"),
			mcp.Enum(string(recent.OrderRecent), string(recent.OrderAccessed)),
		),
	)
	s.AddTool(listRecentTool, common.InstrumentedToolHandler("list_recent_bots", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListRecentBots(ctx, request, sc)
		}))
	return nil
}

func handleListRecentBots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	order, err := recent.ParseOrder(request.GetString("order", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := request.GetInt("limit", defaultRecentLimit)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be at least 1"), nil
	}

	_, st := sc.Session(ctx)
	records, err := sc.Tracker().Recent(ctx, order, limit)
	if err != nil {
		return common.ErrorResult("list recent bots", err), nil
	}

	if len(records) == 0 {
		if len(st.RecentBotIDs) == 0 {
			return mcp.NewToolResultText("No recent bots. Bots show up here once their meeting data has been fetched."), nil
		}
		// Without a store the session list is the only memory.
		var sb strings.Builder
		sb.WriteString("Recent bots in this session:\n\n")
		for i, id := range st.RecentBotIDs {
			fmt.Fprintf(&sb, "%d. %s %s\n", i+1, id, sc.Links().Recording(id))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Recent bots (%s, store: %s):\n\n", order, sc.Tracker().Backend())
	for i, rec := range records {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, displayName(rec.BotName))
		fmt.Fprintf(&sb, "   ID: %s\n", rec.BotID)
		if rec.MeetingURL != "" {
			fmt.Fprintf(&sb, "   Meeting: %s\n", rec.MeetingURL)
		}
		fmt.Fprintf(&sb, "   Last accessed: %s (%d access(es))\n", rec.LastAccessed.Format(time.RFC3339), rec.AccessCount)
		fmt.Fprintf(&sb, "   Recording: %s\n", sc.Links().Recording(rec.BotID))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
