package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/meeting-mcp/internal/config"
)

// Log formats accepted by --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// rootCmd represents the base command for the meeting-mcp application
var rootCmd = &cobra.Command{
	Use:   "meeting-mcp",
	Short: "MCP server for the Meeting BaaS recording API",
	Long: `meeting-mcp exposes the Meeting BaaS API to AI assistants over the
Model Context Protocol. Assistants can send recording bots to meetings,
read transcripts, find the key moments of a meeting, search what was said
and manage calendar integrations.

It can run as:
  - An MCP server (meeting-mcp serve)
  - A CLI for quick lookups (meeting-mcp moments, meeting-mcp search)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd.ErrOrStderr(), debugMode, logFormat)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

var (
	// version will be set by main
	version = "dev"

	debugMode  bool
	logFormat  string
	configPath string
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "meeting-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logFormatText, "Log format: text or json. Logs always go to stderr.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.meeting-mcp/config.yaml). Can also use MEETING_MCP_CONFIG_DIR env var for the directory.")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMomentsCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// newLogger builds the process logger. stdout is reserved for the stdio
// transport, so w is stderr outside of tests.
func newLogger(w io.Writer, debug bool, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	switch format {
	case "", logFormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case logFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q (supported: text, json)", format)
	}
}

// loadConfig reads --config when given and the default location otherwise.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}
