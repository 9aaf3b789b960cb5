// Package calendar_tools exposes the calendar integration of the meeting API
// as MCP tools. Connected calendars are synced upstream, and a recording bot
// can be scheduled for any of their events.
//
// Listing and reading tools are always registered. Tools that connect,
// disconnect, resync or schedule need the server to run with --yolo.
package calendar_tools
