// Package link_tools builds shareable viewer links for recorded meetings.
// The tools only format links; they make no calls to the meeting API.
package link_tools
