// Package meeting_tools provides the MCP tools around recording bots: joining
// and leaving meetings, reading meeting data and transcripts, and the
// analysis tools find_key_moments, intelligent_search and search_transcript.
//
// Tools that change state upstream (join_meeting, leave_meeting,
// delete_meeting_data, retranscribe_bot) are only registered when the
// server runs without read-only mode.
package meeting_tools
