package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/server"
	"github.com/teemow/meeting-mcp/internal/tools/common"
)

// RegisterEventTools registers the read-only event tools.
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listEventsTool := mcp.NewTool("list_events",
		mcp.WithDescription("List the events of a connected calendar and whether a recording is scheduled"),
		mcp.WithString("calendar_id",
			mcp.Required(),
			mcp.Description("UUID of the calendar"),
		),
		mcp.WithString("start_date_gte",
			mcp.Description("Only events starting at or after this time (RFC3339, e.g. '2025-01-01T00:00:00Z')"),
		),
		mcp.WithString("start_date_lte",
			mcp.Description("Only events starting at or before this time (RFC3339)"),
		),
		mcp.WithString("cursor",
			mcp.Description("Cursor from a previous call to fetch the next page"),
		),
	)
	s.AddTool(listEventsTool, common.InstrumentedToolHandler("list_events", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	getEventTool := mcp.NewTool("get_event",
		mcp.WithDescription("Get the details of a calendar event"),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("UUID of the event"),
		),
	)
	s.AddTool(getEventTool, common.InstrumentedToolHandler("get_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvent(ctx, request, sc)
		}))

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	calendarID, err := requireID(request, "calendar_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := baas.ListEventsOptions{
		CalendarID:   calendarID,
		StartDateGTE: request.GetString("start_date_gte", ""),
		StartDateLTE: request.GetString("start_date_lte", ""),
		Cursor:       request.GetString("cursor", ""),
	}
	for name, v := range map[string]string{"start_date_gte": opts.StartDateGTE, "start_date_lte": opts.StartDateLTE} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, v); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid %s format: %v", name, err)), nil
		}
	}

	ctx, _ = sc.Session(ctx)
	list, err := sc.Client().ListEvents(ctx, opts)
	if err != nil {
		return common.ErrorResult("list events", err), nil
	}
	if len(list.Data) == 0 {
		return mcp.NewToolResultText("No events found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d event(s):\n\n", len(list.Data))
	for i, ev := range list.Data {
		fmt.Fprintf(&sb, "%d. ", i+1)
		writeEvent(&sb, ev)
		sb.WriteString("\n")
	}
	if list.Next != "" {
		fmt.Fprintf(&sb, "More events available, pass cursor=%q\n", list.Next)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	id, err := requireID(request, "event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, _ = sc.Session(ctx)
	ev, err := sc.Client().GetEvent(ctx, id)
	if err != nil {
		return common.ErrorResult("get event", err), nil
	}

	var sb strings.Builder
	sb.WriteString("Event: ")
	writeEvent(&sb, *ev)
	for _, a := range ev.Attendees {
		if a.Name != "" {
			fmt.Fprintf(&sb, "   - %s <%s>\n", a.Name, a.Email)
		} else {
			fmt.Fprintf(&sb, "   - %s\n", a.Email)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
