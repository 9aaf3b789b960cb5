// Package server holds the runtime state shared by the MCP tools and the
// HTTP plumbing around them.
//
// # Key Components
//
// ServerContext owns the meeting API client, the insights service, the
// recent-bots tracker and the per-session state registry. Tool handlers get
// everything they need from it.
//
// SessionRegistry keeps the latest session.State per MCP session id. State
// values are never changed in place: handlers read a State, pass it through
// the operation and store the State the operation returns.
//
// HTTPServer serves the streamable HTTP transport on /mcp together with the
// health endpoints. Clients send their Meeting BaaS key in the
// x-meeting-baas-api-key header, or as a Bearer token.
//
// MetricsServer exposes Prometheus metrics on a dedicated port.
package server
