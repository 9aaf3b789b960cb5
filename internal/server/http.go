package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// MCPEndpointPath is where the streamable HTTP transport is mounted.
	MCPEndpointPath = "/mcp"

	DefaultHTTPReadHeaderTimeout = 10 * time.Second
	// DefaultHTTPWriteTimeout leaves room for a full upstream round trip
	// plus transcript analysis.
	DefaultHTTPWriteTimeout = 2 * time.Minute
	DefaultHTTPIdleTimeout  = 120 * time.Second
)

// HTTPServer serves MCP over streamable HTTP next to the health endpoints.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	sc         *ServerContext
	health     *HealthChecker
	httpServer *http.Server
	listenAddr string
}

// NewHTTPServer wires mcp to the HTTP transport. sc provides metrics and the
// health checks.
func NewHTTPServer(mcp *mcpserver.MCPServer, sc *ServerContext) *HTTPServer {
	return &HTTPServer{
		mcpServer: mcp,
		sc:        sc,
		health:    NewHealthChecker(sc),
	}
}

// Health returns the checker behind the probe endpoints.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Handler builds the complete HTTP handler.
func (s *HTTPServer) Handler() http.Handler {
	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(MCPEndpointPath),
		mcpserver.WithHTTPContextFunc(HTTPContextFunc),
	)

	mux := http.NewServeMux()
	mux.Handle(MCPEndpointPath, otelhttp.NewHandler(streamable, "mcp"))
	s.health.RegisterHealthEndpoints(mux)
	return s.metricsMiddleware(mux)
}

// Start listens on addr and serves until Shutdown. ready, when not nil, is
// closed once the listener is bound.
func (s *HTTPServer) Start(addr string, ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listenAddr = ln.Addr().String()

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultHTTPReadHeaderTimeout,
		WriteTimeout:      DefaultHTTPWriteTimeout,
		IdleTimeout:       DefaultHTTPIdleTimeout,
	}

	slog.Info("MCP endpoint available", "url", "http://"+s.listenAddr+MCPEndpointPath)
	if ready != nil {
		close(ready)
	}
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAddr returns the bound address after Start signalled readiness.
func (s *HTTPServer) ListenAddr() string {
	return s.listenAddr
}

// Shutdown marks the server not ready and drains connections.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps server-sent event streams working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if s.sc != nil {
			s.sc.Metrics().RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
		}
	})
}
