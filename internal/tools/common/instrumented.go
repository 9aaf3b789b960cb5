package common

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/meeting-mcp/internal/instrumentation"
	"github.com/teemow/meeting-mcp/internal/logging"
	"github.com/teemow/meeting-mcp/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Guard turns a panic inside handler into an error result so a bad
// transcript can never take the server down.
func Guard(toolName string, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("tool handler panicked",
					logging.Tool(toolName), "panic", r, "stack", string(debug.Stack()))
				result = mcp.NewToolResultError(fmt.Sprintf("Failed to process request: internal error in %s", toolName))
				err = nil
			}
		}()
		return handler(ctx, request)
	}
}

// InstrumentedToolHandler wraps a tool handler with the panic guard, a tool
// span, metrics and audit logging.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	guarded := Guard(toolName, handler)

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		if metrics == nil && auditLogger == nil {
			return guarded(ctx, request)
		}

		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithSession(server.SessionID(ctx))
		if botID := request.GetString("bot_id", ""); botID != "" {
			invocation.WithBotID(botID)
		}

		result, err := guarded(ctx, request)

		switch {
		case err != nil:
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			invocation.Complete(false, fmt.Errorf("%s", resultText(result)))
			instrumentation.SetSpanError(span, fmt.Errorf("tool returned an error result"))
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		metrics.RecordToolInvocation(ctx, toolName, invocation.Status(), time.Since(start))
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}
		return result, err
	}
}

func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return "error result"
}
