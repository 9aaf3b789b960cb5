package meeting_tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/analysis"
	"github.com/teemow/meeting-mcp/internal/insights"
	"github.com/teemow/meeting-mcp/internal/search"
	"github.com/teemow/meeting-mcp/internal/server"
	"github.com/teemow/meeting-mcp/internal/tools/common"
)

// RegisterAnalysisTools registers the transcript analysis tools. They only
// read upstream data and are always available.
func RegisterAnalysisTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	keyMomentsTool := mcp.NewTool("find_key_moments",
		mcp.WithDescription("Find the key moments of a recorded meeting: decisions, problems, "+
			"next steps and summaries, each with a link that starts playback at that moment"),
		mcp.WithString("bot_id",
			mcp.Description("ID of the recording bot. Defaults to the bot used last in this session."),
		),
		mcp.WithString("meeting_title",
			mcp.Description("Title used in the report. Defaults to the bot name."),
		),
		mcp.WithArray("topics",
			mcp.Description("Topics to locate in the transcript in addition to the detected ones"),
			mcp.WithStringItems(),
		),
		mcp.WithNumber("max_moments",
			mcp.Description("Maximum number of key moments to return"),
			mcp.DefaultNumber(analysis.DefaultMaxMoments),
		),
		mcp.WithString("granularity",
			mcp.Description("Chunking granularity: high (short chunks), medium or low"),
			mcp.Enum(string(analysis.GranularityHigh), string(analysis.GranularityMedium), string(analysis.GranularityLow)),
		),
		mcp.WithBoolean("auto_detect_topics",
			mcp.Description("Detect discussion topics automatically (default: true)"),
		),
		mcp.WithNumber("initial_chunk_size",
			mcp.Description("Coarse chunk window in seconds, divided by the granularity (default: 1200 unless configured)"),
		),
	)
	s.AddTool(keyMomentsTool, common.InstrumentedToolHandler("find_key_moments", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindKeyMoments(ctx, request, sc)
		}))

	intelligentSearchTool := mcp.NewTool("intelligent_search",
		mcp.WithDescription("Answer a free-text question about a meeting. Understands speakers "+
			"(\"what did Alice say about pricing\") and times (\"after 10 minutes\", \"between 5 and 15\")"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The question or search terms"),
		),
		mcp.WithString("bot_id",
			mcp.Description("ID of the recording bot. Defaults to the bot used last in this session."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of matches to return"),
			mcp.DefaultNumber(search.DefaultMaxResults),
		),
		mcp.WithBoolean("include_context",
			mcp.Description("Include the segments before and after each match (default: true)"),
		),
		mcp.WithString("sort_by",
			mcp.Description("Order of the matches"),
			mcp.Enum(search.SortByTime, search.SortByRelevance),
		),
		mcp.WithString("speaker",
			mcp.Description("Only segments by this speaker. Overrides a speaker named in the query."),
		),
		mcp.WithNumber("start_time",
			mcp.Description("Only segments starting at or after this many seconds"),
		),
		mcp.WithNumber("end_time",
			mcp.Description("Only segments starting at or before this many seconds"),
		),
	)
	s.AddTool(intelligentSearchTool, common.InstrumentedToolHandler("intelligent_search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleIntelligentSearch(ctx, request, sc)
		}))

	searchTranscriptTool := mcp.NewTool("search_transcript",
		mcp.WithDescription("Case-insensitive text search over a meeting transcript"),
		mcp.WithString("bot_id",
			mcp.Description("ID of the recording bot. Defaults to the bot used last in this session."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to look for"),
		),
	)
	s.AddTool(searchTranscriptTool, common.InstrumentedToolHandler("search_transcript", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchTranscript(ctx, request, sc)
		}))

	return nil
}

func handleFindKeyMoments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	ctx, st := sc.Session(ctx)
	botID, err := common.BotID(request, st)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	defaults := sc.Insights().DefaultOptions()
	granularity := defaults.Granularity
	if g := request.GetString("granularity", ""); g != "" {
		if granularity, err = analysis.ParseGranularity(g); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	opts := analysis.Options{
		MaxMoments:       request.GetInt("max_moments", defaults.MaxMoments),
		Granularity:      granularity,
		InitialChunkSize: request.GetFloat("initial_chunk_size", defaults.InitialChunkSize),
		AutoDetectTopics: request.GetBool("auto_detect_topics", true),
	}
	if opts.MaxMoments < 1 {
		return mcp.NewToolResultError("max_moments must be at least 1"), nil
	}
	if opts.InitialChunkSize <= 0 {
		return mcp.NewToolResultError("initial_chunk_size must be positive"), nil
	}

	report, next, err := sc.Insights().FindKeyMoments(ctx, st, insights.KeyMomentsRequest{
		BotID:        botID,
		MeetingTitle: request.GetString("meeting_title", ""),
		Topics:       common.StringList(request, "topics"),
		Options:      opts,
	})
	if err != nil {
		return common.ErrorResult("find key moments", err), nil
	}
	sc.UpdateSession(ctx, next)

	return mcp.NewToolResultText(report.Text()), nil
}

func handleIntelligentSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	ctx, st := sc.Session(ctx)
	botID, err := common.BotID(request, st)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sortBy := request.GetString("sort_by", search.SortByTime)
	if sortBy != search.SortByTime && sortBy != search.SortByRelevance {
		return mcp.NewToolResultError("sort_by must be one of: time, relevance"), nil
	}

	q := search.Query{
		Text:           query,
		MaxResults:     request.GetInt("max_results", search.DefaultMaxResults),
		IncludeContext: request.GetBool("include_context", true),
		SortBy:         sortBy,
		Filters: search.Filters{
			Speaker:   request.GetString("speaker", ""),
			StartTime: common.OptionalFloat(request, "start_time"),
			EndTime:   common.OptionalFloat(request, "end_time"),
		},
	}

	report, next, err := sc.Insights().IntelligentSearch(ctx, st, insights.SearchRequest{BotID: botID, Query: q})
	if err != nil {
		return common.ErrorResult("search meeting", err), nil
	}
	sc.UpdateSession(ctx, next)

	return mcp.NewToolResultText(report.Text()), nil
}

func handleSearchTranscript(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	ctx, st := sc.Session(ctx)
	botID, err := common.BotID(request, st)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches, next, err := sc.Insights().SearchTranscript(ctx, st, botID, query)
	if err != nil {
		return common.ErrorResult("search transcript", err), nil
	}
	sc.UpdateSession(ctx, next)

	return mcp.NewToolResultText(matches.Text()), nil
}
