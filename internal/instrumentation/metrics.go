package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrTool      = "tool"
	attrBackend   = "backend"
	attrTier      = "tier"
)

var (
	latencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
	momentBuckets  = []float64{0, 1, 2, 3, 5, 10, 20}
)

// Metrics records the server's metrics. The zero value is a valid no-op
// recorder, which is what a disabled Provider hands out.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	apiRequestsTotal   metric.Int64Counter
	apiRequestDuration metric.Float64Histogram

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	trackingFailures metric.Int64Counter
	searchTiers      metric.Int64Counter
	keyMoments       metric.Int64Histogram
}

// NewMetrics creates every instrument on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.httpRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}
	if m.httpRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0)); err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}
	if m.activeSessions, err = meter.Int64UpDownCounter("active_sessions",
		metric.WithDescription("Number of active MCP sessions"),
		metric.WithUnit("{session}")); err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	if m.apiRequestsTotal, err = meter.Int64Counter("meeting_api_requests_total",
		metric.WithDescription("Total number of meeting API requests"),
		metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("failed to create meeting_api_requests_total counter: %w", err)
	}
	if m.apiRequestDuration, err = meter.Float64Histogram("meeting_api_request_duration_seconds",
		metric.WithDescription("Meeting API request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...)); err != nil {
		return nil, fmt.Errorf("failed to create meeting_api_request_duration_seconds histogram: %w", err)
	}

	if m.toolInvocationsTotal, err = meter.Int64Counter("mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}")); err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}
	if m.toolDuration, err = meter.Float64Histogram("mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...)); err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	if m.trackingFailures, err = meter.Int64Counter("recent_store_failures_total",
		metric.WithDescription("Recent-bots store writes that failed and were ignored"),
		metric.WithUnit("{failure}")); err != nil {
		return nil, fmt.Errorf("failed to create recent_store_failures_total counter: %w", err)
	}
	if m.searchTiers, err = meter.Int64Counter("search_tier_total",
		metric.WithDescription("Searches answered, by fallback tier"),
		metric.WithUnit("{search}")); err != nil {
		return nil, fmt.Errorf("failed to create search_tier_total counter: %w", err)
	}
	if m.keyMoments, err = meter.Int64Histogram("key_moments_returned",
		metric.WithDescription("Number of key moments returned per report"),
		metric.WithUnit("{moment}"),
		metric.WithExplicitBucketBoundaries(momentBuckets...)); err != nil {
		return nil, fmt.Errorf("failed to create key_moments_returned histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an inbound HTTP request.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordAPIRequest records one upstream meeting API call. statusCode is zero
// when no response was received.
func (m *Metrics) RecordAPIRequest(ctx context.Context, operation string, statusCode int, duration time.Duration) {
	if m == nil || m.apiRequestsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, StatusClass(statusCode)),
	)
	m.apiRequestsTotal.Add(ctx, 1, attrs)
	m.apiRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordToolInvocation records an MCP tool call with its status.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	)
	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordTrackingFailure counts a recent-bots store failure.
func (m *Metrics) RecordTrackingFailure(ctx context.Context, backend, operation string) {
	if m == nil || m.trackingFailures == nil {
		return
	}
	m.trackingFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrBackend, BoundedLabel(backend, BackendSQLite, BackendRedis)),
		attribute.String(attrOperation, operation),
	))
}

// RecordSearchTier counts which fallback tier answered a search.
func (m *Metrics) RecordSearchTier(ctx context.Context, tier string) {
	if m == nil || m.searchTiers == nil {
		return
	}
	m.searchTiers.Add(ctx, 1, metric.WithAttributes(attribute.String(attrTier, tier)))
}

// RecordKeyMoments records how many moments a report contained.
func (m *Metrics) RecordKeyMoments(ctx context.Context, count int) {
	if m == nil || m.keyMoments == nil {
		return
	}
	m.keyMoments.Record(ctx, int64(count))
}

// IncrementActiveSessions increments the active sessions gauge.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions gauge.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, -1)
}
