// Package common holds the helpers shared by every MCP tool package:
// instrumentation around handlers, argument parsing and the conversion of
// errors into tool results.
package common
