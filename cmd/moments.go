package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teemow/meeting-mcp/internal/analysis"
	"github.com/teemow/meeting-mcp/internal/insights"
	"github.com/teemow/meeting-mcp/internal/server"
	"github.com/teemow/meeting-mcp/internal/session"
)

type momentsOptions struct {
	maxMoments       int
	granularity      string
	initialChunkSize float64
	topics           []string
	noAutoTopics     bool
	title            string
}

func newMomentsCmd() *cobra.Command {
	var opts momentsOptions

	cmd := &cobra.Command{
		Use:   "moments <bot-id>",
		Short: "Print the key moments of a recorded meeting",
		Long: `Fetch a meeting transcript and print its key moments with timestamped
viewer links, the same report the find_key_moments tool returns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMoments(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxMoments, "max-moments", analysis.DefaultMaxMoments, "Maximum number of key moments")
	cmd.Flags().StringVar(&opts.granularity, "granularity", "", "Chunking granularity: high, medium or low (default: high)")
	cmd.Flags().Float64Var(&opts.initialChunkSize, "initial-chunk-size", 0, "Coarse chunk window in seconds (default: from config, 1200)")
	cmd.Flags().StringSliceVar(&opts.topics, "topics", nil, "Topics to locate in addition to the detected ones (comma-separated)")
	cmd.Flags().BoolVar(&opts.noAutoTopics, "no-auto-topics", false, "Disable automatic topic detection")
	cmd.Flags().StringVar(&opts.title, "title", "", "Report title (default: the bot name)")

	return cmd
}

func runMoments(cmd *cobra.Command, botID string, opts momentsOptions) error {
	if opts.maxMoments < 1 {
		return fmt.Errorf("--max-moments must be at least 1")
	}

	ctx := cmdContext(cmd)
	sc, err := cliServerContext(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Shutdown() }()

	extract := sc.Insights().DefaultOptions()
	extract.MaxMoments = opts.maxMoments
	extract.AutoDetectTopics = !opts.noAutoTopics
	if opts.granularity != "" {
		if extract.Granularity, err = analysis.ParseGranularity(opts.granularity); err != nil {
			return err
		}
	}
	if opts.initialChunkSize > 0 {
		extract.InitialChunkSize = opts.initialChunkSize
	}

	report, _, err := sc.Insights().FindKeyMoments(ctx, session.State{}, insights.KeyMomentsRequest{
		BotID:        botID,
		MeetingTitle: opts.title,
		Topics:       opts.topics,
		Options:      extract,
	})
	if err != nil {
		return fmt.Errorf("failed to find key moments: %w", err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), report.Text())
	return err
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// cliServerContext builds a ServerContext for one-shot commands. They
// record no metrics.
func cliServerContext(ctx context.Context) (*server.ServerContext, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return newServerContext(ctx, cfg, nil, slog.Default())
}
