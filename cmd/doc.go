// Package cmd implements the command-line interface for meeting-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server over stdio or streamable HTTP
//   - moments: Print the key moments of a recorded meeting
//   - search: Ask a free-text question about a meeting transcript
//   - auth: Store, inspect or remove the Meeting BaaS API key
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd
