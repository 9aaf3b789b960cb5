package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/meeting-mcp/internal/insights"
	"github.com/teemow/meeting-mcp/internal/search"
	"github.com/teemow/meeting-mcp/internal/session"
)

type searchOptions struct {
	speaker        string
	startTime      float64
	endTime        float64
	maxResults     int
	includeContext bool
	sortBy         string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <bot-id> <query...>",
		Short: "Ask a free-text question about a meeting transcript",
		Long: `Search a meeting transcript the way the intelligent_search tool does.
The query may name a speaker ("what did Alice say about pricing") and a time
range ("after 10 minutes", "between 5 and 15").`,
		Example: `  meeting-mcp search 3f2a... "what did Alice say about the budget"
  meeting-mcp search 3f2a... deadline --speaker Bob --start 600`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := search.Query{
				Text:           strings.Join(args[1:], " "),
				MaxResults:     opts.maxResults,
				IncludeContext: opts.includeContext,
				SortBy:         opts.sortBy,
				Filters:        search.Filters{Speaker: opts.speaker},
			}
			if cmd.Flags().Changed("start") {
				q.Filters.StartTime = &opts.startTime
			}
			if cmd.Flags().Changed("end") {
				q.Filters.EndTime = &opts.endTime
			}
			return runSearch(cmd, args[0], q)
		},
	}

	cmd.Flags().StringVar(&opts.speaker, "speaker", "", "Only consider segments by this speaker")
	cmd.Flags().Float64Var(&opts.startTime, "start", 0, "Only consider segments starting at or after this many seconds")
	cmd.Flags().Float64Var(&opts.endTime, "end", 0, "Only consider segments starting at or before this many seconds")
	cmd.Flags().IntVar(&opts.maxResults, "max-results", search.DefaultMaxResults, "Maximum number of matches")
	cmd.Flags().BoolVar(&opts.includeContext, "context", false, "Show the segments around each match")
	cmd.Flags().StringVar(&opts.sortBy, "sort", search.SortByTime, "Sort order: time or relevance")

	return cmd
}

func runSearch(cmd *cobra.Command, botID string, q search.Query) error {
	if q.SortBy != search.SortByTime && q.SortBy != search.SortByRelevance {
		return fmt.Errorf("--sort must be time or relevance, got %q", q.SortBy)
	}
	if q.MaxResults < 1 {
		return fmt.Errorf("--max-results must be at least 1")
	}

	ctx := cmdContext(cmd)
	sc, err := cliServerContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	report, _, err := sc.Insights().IntelligentSearch(ctx, session.State{}, insights.SearchRequest{BotID: botID, Query: q})
	if err != nil {
		return fmt.Errorf("failed to search transcript: %w", err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), report.Text())
	return err
}
