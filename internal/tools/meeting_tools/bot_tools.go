package meeting_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/insights"
	"github.com/teemow/meeting-mcp/internal/recent"
	"github.com/teemow/meeting-mcp/internal/server"
	"github.com/teemow/meeting-mcp/internal/tools/batch"
	"github.com/teemow/meeting-mcp/internal/tools/common"
)

// RegisterBotTools registers the bot lifecycle and meeting data tools.
func RegisterBotTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getMeetingDataTool := mcp.NewTool("get_meeting_data",
		mcp.WithDescription("Get the metadata of a recorded meeting: bot name, meeting URL, times, duration, recording link and speakers"),
		mcp.WithString("bot_id",
			mcp.Description("ID of the recording bot. Defaults to the bot used last in this session."),
		),
	)
	s.AddTool(getMeetingDataTool, common.InstrumentedToolHandler("get_meeting_data", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMeetingData(ctx, request, sc)
		}))

	getTranscriptTool := mcp.NewTool("get_transcript",
		mcp.WithDescription("Get the timestamped transcript of a recorded meeting, one speaker turn per line"),
		mcp.WithString("bot_id",
			mcp.Description("ID of the recording bot. Defaults to the bot used last in this session."),
		),
		mcp.WithNumber("offset",
			mcp.Description("Index of the first segment to return"),
			mcp.DefaultNumber(0),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of segments to return"),
			mcp.DefaultNumber(insights.DefaultTranscriptLimit),
		),
	)
	s.AddTool(getTranscriptTool, common.InstrumentedToolHandler("get_transcript", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetTranscript(ctx, request, sc)
		}))

	listBotsTool := mcp.NewTool("list_bots_with_metadata",
		mcp.WithDescription("List recording bots of the account with their meeting metadata"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of bots to return"),
		),
		mcp.WithString("bot_name",
			mcp.Description("Only bots whose name contains this text"),
		),
		mcp.WithString("meeting_url",
			mcp.Description("Only bots that recorded this meeting URL"),
		),
		mcp.WithString("cursor",
			mcp.Description("Cursor from a previous call to fetch the next page"),
		),
	)
	s.AddTool(listBotsTool, common.InstrumentedToolHandler("list_bots_with_metadata", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListBots(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	joinTool := mcp.NewTool("join_meeting",
		mcp.WithDescription("Send a recording bot into a Google Meet, Zoom or Teams meeting"),
		mcp.WithString("meeting_url",
			mcp.Required(),
			mcp.Description("URL of the meeting to join"),
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
		mcp.WithString("speech_to_text",
			mcp.Description("Transcription provider: Default, Gladia or Runpod"),
		),
		mcp.WithString("recording_mode",
			mcp.Description("speaker_view (default), gallery_view or audio_only"),
		),
		mcp.WithBoolean("reserved",
			mcp.Description("Use a reserved bot that joins exactly on time"),
		),
		mcp.WithString("deduplication_key",
			mcp.Description("Key that prevents two bots from joining the same meeting"),
		),
		mcp.WithObject("extra",
			mcp.Description("Free-form metadata stored with the bot"),
		),
	)
	s.AddTool(joinTool, common.InstrumentedToolHandler("join_meeting", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleJoinMeeting(ctx, request, sc)
		}))

	leaveTool := mcp.NewTool("leave_meeting",
		mcp.WithDescription("Remove a recording bot from its meeting"),
		mcp.WithString("bot_id",
			mcp.Required(),
			mcp.Description("ID of the bot to remove"),
		),
	)
	s.AddTool(leaveTool, common.InstrumentedToolHandler("leave_meeting", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleLeaveMeeting(ctx, request, sc)
		}))

	deleteTool := mcp.NewTool("delete_meeting_data",
		mcp.WithDescription("Permanently delete the recording and transcript of one or more bots"),
		mcp.WithArray("bot_ids",
			mcp.Required(),
			mcp.Description("Bot ID or list of bot IDs"),
			mcp.WithStringItems(),
		),
	)
	s.AddTool(deleteTool, common.InstrumentedToolHandler("delete_meeting_data", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteMeetingData(ctx, request, sc)
		}))

	retranscribeTool := mcp.NewTool("retranscribe_bot",
		mcp.WithDescription("Transcribe a finished recording again, optionally with another provider"),
		mcp.WithString("bot_id",
			mcp.Required(),
			mcp.Description("ID of the bot whose recording is transcribed"),
		),
		mcp.WithString("speech_to_text",
			mcp.Description("Transcription provider: Default, Gladia or Runpod"),
		),
	)
	s.AddTool(retranscribeTool, common.InstrumentedToolHandler("retranscribe_bot", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRetranscribe(ctx, request, sc)
		}))

	return nil
}

func handleGetMeetingData(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ctx, st := sc.Session(ctx)
	botID, err := common.BotID(request, st)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, next, err := sc.Insights().Meeting(ctx, st, botID)
	if err != nil {
		return common.ErrorResult("get meeting data", err), nil
	}
	sc.UpdateSession(ctx, next)

	return mcp.NewToolResultText(sc.Insights().Summary(botID, data).Text()), nil
}

func handleGetTranscript(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ctx, st := sc.Session(ctx)
	botID, err := common.BotID(request, st)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	offset := request.GetInt("offset", 0)
	limit := request.GetInt("limit", insights.DefaultTranscriptLimit)
	if offset < 0 || limit < 1 {
		return mcp.NewToolResultError("offset must be >= 0 and limit must be >= 1"), nil
	}

	page, next, err := sc.Insights().Transcript(ctx, st, botID, offset, limit)
	if err != nil {
		return common.ErrorResult("get transcript", err), nil
	}
	sc.UpdateSession(ctx, next)

	return mcp.NewToolResultText(page.Text()), nil
}

func handleListBots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ctx, _ = sc.Session(ctx)

	list, err := sc.Client().ListBots(ctx, baas.ListBotsOptions{
		Limit:      request.GetInt("limit", 0),
		BotName:    request.GetString("bot_name", ""),
		MeetingURL: request.GetString("meeting_url", ""),
		Cursor:     request.GetString("cursor", ""),
	})
	if err != nil {
		return common.ErrorResult("list bots", err), nil
	}

	if len(list.Bots) == 0 {
		return mcp.NewToolResultText("No bots found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d bot(s):\n\n", len(list.Bots))
	for i, bot := range list.Bots {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, displayName(bot.BotName))
		fmt.Fprintf(&sb, "   ID: %s\n", bot.ID)
		if bot.MeetingURL != "" {
			fmt.Fprintf(&sb, "   Meeting: %s\n", bot.MeetingURL)
		}
		if !bot.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, "   Created: %s\n", bot.CreatedAt.Format(time.RFC3339))
		}
		if !bot.EndedAt.IsZero() {
			fmt.Fprintf(&sb, "   Ended: %s\n", bot.EndedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(&sb, "   Recording: %s\n", sc.Links().Recording(bot.ID))
	}
	if list.NextCursor != "" {
		fmt.Fprintf(&sb, "\nMore bots available, pass cursor=%q\n", list.NextCursor)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleJoinMeeting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	meetingURL, err := request.RequireString("meeting_url")
	if err != nil || strings.TrimSpace(meetingURL) == "" {
		return mcp.NewToolResultError("meeting_url is required"), nil
	}
	botName, err := request.RequireString("bot_name")
	if err != nil || strings.TrimSpace(botName) == "" {
		return mcp.NewToolResultError("bot_name is required"), nil
	}

	stt, err := baas.ParseSpeechToText(request.GetString("speech_to_text", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := baas.ParseRecordingMode(request.GetString("recording_mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	join := baas.JoinRequest{
		MeetingURL:       meetingURL,
		BotName:          botName,
		BotImage:         request.GetString("bot_image", ""),
		EntryMessage:     request.GetString("entry_message", ""),
		SpeechToText:     stt,
		RecordingMode:    mode,
		Reserved:         request.GetBool("reserved", false),
		DeduplicationKey: request.GetString("deduplication_key", ""),
	}
	if extra, ok := request.GetArguments()["extra"].(map[string]any); ok {
		join.Extra = extra
	}

	ctx, st := sc.Session(ctx)
	botID, err := sc.Client().JoinMeeting(ctx, join)
	if err != nil {
		return common.ErrorResult("join meeting", err), nil
	}

	next := sc.Tracker().Track(ctx, st, recent.Record{BotID: botID, BotName: botName, MeetingURL: meetingURL})
	sc.UpdateSession(ctx, next)

	return mcp.NewToolResultText(fmt.Sprintf(
		"Bot %q is joining %s\nBot ID: %s\nRecording will be available at: %s",
		botName, meetingURL, botID, sc.Links().Recording(botID))), nil
}

func handleLeaveMeeting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	botID, err := request.RequireString("bot_id")
	if err != nil || strings.TrimSpace(botID) == "" {
		return mcp.NewToolResultError("bot_id is required"), nil
	}

	ctx, _ = sc.Session(ctx)
	if err := sc.Client().LeaveMeeting(ctx, botID); err != nil {
		return common.ErrorResult("leave meeting", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Bot %s is leaving the meeting", botID)), nil
}

func handleDeleteMeetingData(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ids, err := batch.ParseIDs(request.GetArguments()["bot_ids"], "bot_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, _ = sc.Session(ctx)
	results := batch.Process(ctx, ids, batch.DefaultConcurrency, func(ctx context.Context, id string) (string, error) {
		if err := sc.Client().DeleteData(ctx, id); err != nil {
			return "", err
		}
		sc.Tracker().Forget(ctx, id)
		return "meeting data deleted", nil
	})

	return mcp.NewToolResultText(batch.Format(results)), nil
}

func handleRetranscribe(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	botID, err := request.RequireString("bot_id")
	if err != nil || strings.TrimSpace(botID) == "" {
		return mcp.NewToolResultError("bot_id is required"), nil
	}
	stt, err := baas.ParseSpeechToText(request.GetString("speech_to_text", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ctx, _ = sc.Session(ctx)
	if err := sc.Client().Retranscribe(ctx, botID, stt); err != nil {
		return common.ErrorResult("retranscribe bot", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Retranscription of bot %s started. Fetch the transcript again once it completes.", botID)), nil
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed bot)"
	}
	return name
}
