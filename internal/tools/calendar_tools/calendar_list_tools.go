package calendar_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/server"
	"github.com/teemow/meeting-mcp/internal/tools/common"
)

// RegisterCalendarListTools registers the tools that manage connected calendars.
func RegisterCalendarListTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listCalendarsTool := mcp.NewTool("list_calendars",
		mcp.WithDescription("List the calendars connected to the meeting recording account"),
	)
	s.AddTool(listCalendarsTool, common.InstrumentedToolHandler("list_calendars", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, request, sc)
		}))

	getCalendarTool := mcp.NewTool("get_calendar",
		mcp.WithDescription("Get the details of a connected calendar"),
		mcp.WithString("calendar_id",
			mcp.Required(),
			mcp.Description("UUID of the calendar"),
		),
	)
	s.AddTool(getCalendarTool, common.InstrumentedToolHandler("get_calendar", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetCalendar(ctx, request, sc)
		}))

	rawOpts := append([]mcp.ToolOption{
		mcp.WithDescription("List the calendars an OAuth grant can access, before connecting one"),
	}, oauthOptions()...)
	s.AddTool(mcp.NewTool("list_raw_calendars", rawOpts...), common.InstrumentedToolHandler("list_raw_calendars", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListRawCalendars(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	setupOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Connect a Google or Microsoft calendar using an OAuth grant"),
		mcp.WithString("raw_calendar_id",
			mcp.Description("Calendar to connect, from list_raw_calendars. Defaults to the primary calendar."),
		),
	}, oauthOptions()...)
	s.AddTool(mcp.NewTool("setup_calendar_oauth", setupOpts...), common.InstrumentedToolHandler("setup_calendar_oauth", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSetupCalendar(ctx, request, sc)
		}))

	deleteCalendarTool := mcp.NewTool("delete_calendar",
		mcp.WithDescription("Disconnect a calendar. Scheduled recordings of its events are cancelled."),
		mcp.WithString("calendar_id",
			mcp.Required(),
			mcp.Description("UUID of the calendar"),
		),
	)
	s.AddTool(deleteCalendarTool, common.InstrumentedToolHandler("delete_calendar", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteCalendar(ctx, request, sc)
		}))

	resyncTool := mcp.NewTool("resync_calendars",
		mcp.WithDescription("Force a sync of all connected calendars"),
	)
	s.AddTool(resyncTool, common.InstrumentedToolHandler("resync_calendars", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleResyncCalendars(ctx, request, sc)
		}))

	return nil
}

func handleListCalendars(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ctx, _ = sc.Session(ctx)
	cals, err := sc.Client().ListCalendars(ctx)
	if err != nil {
		return common.ErrorResult("list calendars", err), nil
	}
	if len(cals) == 0 {
		return mcp.NewToolResultText("No calendars connected. Use setup_calendar_oauth to connect one."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d calendar(s):\n\n", len(cals))
	for i, cal := range cals {
		fmt.Fprintf(&sb, "%d. ", i+1)
		writeCalendar(&sb, cal)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetCalendar(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	id, err := requireID(request, "calendar_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, _ = sc.Session(ctx)
	cal, err := sc.Client().GetCalendar(ctx, id)
	if err != nil {
		return common.ErrorResult("get calendar", err), nil
	}

	var sb strings.Builder
	sb.WriteString("Calendar: ")
	writeCalendar(&sb, *cal)
	return mcp.NewToolResultText(sb.String()), nil
}

func handleListRawCalendars(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	creds, err := oauthFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, _ = sc.Session(ctx)
	raws, err := sc.Client().ListRawCalendars(ctx, creds)
	if err != nil {
		return common.ErrorResult("list raw calendars", err), nil
	}
	if len(raws) == 0 {
		return mcp.NewToolResultText("The grant has access to no calendars."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d calendar(s) available to connect:\n\n", len(raws))
	for i, raw := range raws {
		primary := ""
		if raw.IsPrimary {
			primary = " (primary)"
		}
		fmt.Fprintf(&sb, "%d. %s%s\n   ID: %s\n", i+1, raw.Email, primary, raw.ID)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleSetupCalendar(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	creds, err := oauthFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, _ = sc.Session(ctx)
	cal, err := sc.Client().CreateCalendar(ctx, creds)
	if err != nil {
		return common.ErrorResult("connect calendar", err), nil
	}

	var sb strings.Builder
	sb.WriteString("Calendar connected: ")
	writeCalendar(&sb, *cal)
	return mcp.NewToolResultText(sb.String()), nil
}

func handleDeleteCalendar(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	id, err := requireID(request, "calendar_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, _ = sc.Session(ctx)
	if err := sc.Client().DeleteCalendar(ctx, id); err != nil {
		return common.ErrorResult("delete calendar", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Calendar %s disconnected", id)), nil
}

func handleResyncCalendars(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ctx, _ = sc.Session(ctx)
	res, err := sc.Client().ResyncCalendars(ctx)
	if err != nil {
		return common.ErrorResult("resync calendars", err), nil
	}

	msg := fmt.Sprintf("Resynced %d calendar(s)", len(res.SyncedCalendars))
	if len(res.Errors) > 0 {
		msg += fmt.Sprintf(", %d failed", len(res.Errors))
	}
	return mcp.NewToolResultText(msg), nil
}
