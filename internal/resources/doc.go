// Package resources exposes meeting data as MCP resources.
//
// meeting://recent-bots lists the bots this server has worked with, and the
// meeting://bots/{bot_id}/transcript template returns a full transcript as
// text. Both resolve credentials from the calling session like the tools do.
package resources
