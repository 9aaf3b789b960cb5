package meeting_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/server"
)

// RegisterMeetingTools registers every meeting tool with the MCP server.
func RegisterMeetingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := RegisterBotTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register bot tools: %w", err)
	}
	if err := RegisterAnalysisTools(s, sc); err != nil {
		return fmt.Errorf("failed to register analysis tools: %w", err)
	}
	if err := RegisterRecentTools(s, sc); err != nil {
		return fmt.Errorf("failed to register recent bot tools: %w", err)
	}
	return nil
}
