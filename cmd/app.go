package cmd

import (
	"context"
	"fmt"
	"log/slog"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/analysis"
	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/config"
	"github.com/teemow/meeting-mcp/internal/credentials"
	"github.com/teemow/meeting-mcp/internal/insights"
	"github.com/teemow/meeting-mcp/internal/instrumentation"
	"github.com/teemow/meeting-mcp/internal/links"
	"github.com/teemow/meeting-mcp/internal/logging"
	"github.com/teemow/meeting-mcp/internal/recent"
	"github.com/teemow/meeting-mcp/internal/resources"
	"github.com/teemow/meeting-mcp/internal/server"
	"github.com/teemow/meeting-mcp/internal/tools/calendar_tools"
	"github.com/teemow/meeting-mcp/internal/tools/link_tools"
	"github.com/teemow/meeting-mcp/internal/tools/meeting_tools"
)

// newServerContext wires the API client, the recent-bots store and the
// insights service described by cfg. metrics may be nil.
func newServerContext(ctx context.Context, cfg *config.Config, metrics *instrumentation.Metrics, logger *slog.Logger) (*server.ServerContext, error) {
	resolver := credentials.NewResolver(credentials.Keyring{}, cfg.APIKey, logger)
	client := baas.NewClient(cfg.APIURL, resolver,
		baas.WithTimeout(cfg.HTTPTimeout),
		baas.WithMetrics(metrics),
		baas.WithLogger(logger),
	)

	store, err := recent.Open(ctx, recent.Options{
		Type:      cfg.RecentStore.Type,
		Path:      cfg.RecentStore.Path,
		RedisURL:  cfg.RecentStore.RedisURL,
		KeyPrefix: cfg.RecentStore.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open recent bots store: %w", err)
	}
	tracker := recent.NewTracker(store, cfg.RecentStore.Type, metrics, logging.NewSlogAdapter(logger))

	linkBuilder := links.NewBuilder(cfg.ViewerURL)
	service := insights.NewService(insights.Config{
		Fetcher:  client,
		Links:    linkBuilder,
		Tracker:  tracker,
		Metrics:  metrics,
		Logger:   logger,
		Defaults: analysis.Options{InitialChunkSize: float64(cfg.Analysis.InitialChunkSize)},
	})

	sc, err := server.NewServerContext(ctx, server.Dependencies{
		Client:   client,
		Insights: service,
		Tracker:  tracker,
		Links:    linkBuilder,
	})
	if err != nil {
		_ = tracker.Close()
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	return sc, nil
}

// newMCPServer creates the MCP server with tool and resource capabilities.
func newMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("meeting-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
		mcpserver.WithRecovery(),
	)
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Meeting",
			register: func() error {
				return meeting_tools.RegisterMeetingTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Link",
			register: func() error {
				return link_tools.RegisterLinkTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Meeting Resources",
			register: func() error {
				return resources.RegisterMeetingResources(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}
