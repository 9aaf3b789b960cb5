package calendar_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/server"
	"github.com/teemow/meeting-mcp/internal/tools/common"
)

// RegisterSchedulingTools registers the tools that book and cancel recording
// bots for calendar events.
func RegisterSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	scheduleTool := mcp.NewTool("schedule_record_event",
		mcp.WithDescription("Schedule a recording bot to join a calendar event"),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("UUID of the event"),
		),
		mcp.WithString("bot_name",
			mcp.Required(),
			mcp.Description("Display name of the bot in the meeting"),
		),
		mcp.WithString("bot_image",
			mcp.Description("URL of an image used as the bot's avatar"),
		),
		mcp.WithString("entry_message",
			mcp.Description("Chat message the bot posts when it joins"),
		),
		mcp.WithString("recording_mode",
			mcp.Description("speaker_view (default), gallery_view or audio_only"),
		),
		mcp.WithString("speech_to_text",
			mcp.Description("Transcription provider: Default, Gladia or Runpod"),
		),
		mcp.WithBoolean("all_occurrences",
			mcp.Description("Also schedule every later occurrence of a recurring event"),
		),
	)
	s.AddTool(scheduleTool, common.InstrumentedToolHandler("schedule_record_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleScheduleRecordEvent(ctx, request, sc)
		}))

	unscheduleTool := mcp.NewTool("unschedule_record_event",
		mcp.WithDescription("Cancel the recording bot scheduled for a calendar event"),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("UUID of the event"),
		),
		mcp.WithBoolean("all_occurrences",
			mcp.Description("Also cancel every later occurrence of a recurring event"),
		),
	)
	s.AddTool(unscheduleTool, common.InstrumentedToolHandler("unschedule_record_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUnscheduleRecordEvent(ctx, request, sc)
		}))

	return nil
}

func handleScheduleRecordEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	eventID, err := requireID(request, "event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	botName, err := requireID(request, "bot_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	stt, err := baas.ParseSpeechToText(request.GetString("speech_to_text", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := baas.ParseRecordingMode(request.GetString("recording_mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := baas.BotParam{
		BotName:       botName,
		BotImage:      request.GetString("bot_image", ""),
		EntryMessage:  request.GetString("entry_message", ""),
		RecordingMode: mode,
		SpeechToText:  stt,
	}

	ctx, _ = sc.Session(ctx)
	events, err := sc.Client().ScheduleRecording(ctx, eventID, params, request.GetBool("all_occurrences", false))
	if err != nil {
		return common.ErrorResult("schedule recording", err), nil
	}
	return mcp.NewToolResultText(eventsSummary(fmt.Sprintf("Recording scheduled with bot %q", botName), events)), nil
}

func handleUnscheduleRecordEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	eventID, err := requireID(request, "event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, _ = sc.Session(ctx)
	events, err := sc.Client().UnscheduleRecording(ctx, eventID, request.GetBool("all_occurrences", false))
	if err != nil {
		return common.ErrorResult("cancel recording", err), nil
	}
	return mcp.NewToolResultText(eventsSummary("Recording cancelled", events)), nil
}

func eventsSummary(headline string, events []baas.Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s for %d event(s):\n\n", headline, len(events))
	for i, ev := range events {
		fmt.Fprintf(&sb, "%d. ", i+1)
		writeEvent(&sb, ev)
	}
	return sb.String()
}
