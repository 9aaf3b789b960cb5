// Package instrumentation wires OpenTelemetry metrics and tracing into the
// meeting MCP server.
//
// # Metrics
//
// Server:
//   - http_requests_total, http_request_duration_seconds
//   - active_sessions
//
// Meeting API:
//   - meeting_api_requests_total: upstream calls by operation and status class
//   - meeting_api_request_duration_seconds
//
// MCP tools:
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds
//
// Analysis:
//   - search_tier_total: which fallback tier answered a search
//   - key_moments_returned: histogram of moments per report
//   - recent_store_failures_total: swallowed tracking failures by backend
//
// # Tracing
//
// Spans are opened for tool invocations (tool.<name>) and for each upstream
// call (meetingbaas.<operation>). The API client also wraps its transport
// with otelhttp, so HTTP client spans nest under the operation span.
//
// # Configuration
//
// The usual OpenTelemetry environment variables apply:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: meeting-mcp)
//
// # Example
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	m := provider.Metrics()
//	m.RecordAPIRequest(ctx, "meeting_data", 200, time.Since(start))
//	m.RecordSearchTier(ctx, "speaker")
package instrumentation
