package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/meeting-mcp/internal/instrumentation"
	"github.com/teemow/meeting-mcp/internal/logging"
)

const (
	// DefaultBaseURL is the production API.
	DefaultBaseURL = "https://api.meetingbaas.com"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second
	// APIKeyHeader carries the API key on every request.
	APIKeyHeader = "x-meeting-baas-api-key"

	maxErrorBody = 4096
)

// KeyProvider resolves the API key for the caller in ctx.
type KeyProvider interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey is a KeyProvider that always returns the same key.
type StaticKey string

func (k StaticKey) APIKey(context.Context) (string, error) {
	return string(k), nil
}

// Client talks to the Meeting BaaS API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	keys       KeyProvider
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. The caller owns its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMetrics records request counts and latency.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger used for request debugging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a client for baseURL. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, keys KeyProvider, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		keys:   keys,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one API call.
type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	botID  string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	key, err := c.keys.APIKey(ctx)
	if err != nil {
		return err
	}

	ctx, span := instrumentation.StartAPISpan(ctx, r.op,
		attribute.String("http.request.method", r.method))
	defer span.End()
	if r.botID != "" {
		span.SetAttributes(attribute.String(instrumentation.SpanAttrBotID, r.botID))
	}

	start := time.Now()
	status, err := c.send(ctx, key, r, out)
	c.metrics.RecordAPIRequest(ctx, r.op, status, time.Since(start))
	if status != 0 {
		span.SetAttributes(attribute.Int(instrumentation.SpanAttrStatusCode, status))
	}

	logger := c.logger.With(logging.Operation(r.op))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		logger.Debug("meeting api request failed", "status_code", status, logging.Err(err))
		return err
	}
	instrumentation.SetSpanSuccess(span)
	logger.Debug("meeting api request", "status_code", status, logging.KeyDuration, time.Since(start))
	return nil
}

func (c *Client) send(ctx context.Context, key string, r request, out any) (int, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return 0, &APIError{Kind: KindMalformed, Operation: r.op, Message: "encode request", Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return 0, &APIError{Kind: KindTransport, Operation: r.op, Err: err}
	}
	req.Header.Set(APIKeyHeader, key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, &APIError{Kind: KindTransport, Operation: r.op, Message: "request timed out", Err: err}
		}
		return 0, &APIError{Kind: KindTransport, Operation: r.op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &APIError{Kind: KindTransport, Operation: r.op, StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}

	if resp.StatusCode >= 300 {
		return resp.StatusCode, &APIError{
			Kind:       kindForStatus(resp.StatusCode),
			Operation:  r.op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, &APIError{Kind: KindMalformed, Operation: r.op, Message: "decode response", Err: err}
	}
	return resp.StatusCode, nil
}

// errorMessage pulls a readable message out of an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  any    `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.Error != "":
			return payload.Error
		case payload.Detail != nil:
			return fmt.Sprint(payload.Detail)
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return text
}
