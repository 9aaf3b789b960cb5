// Package baas is a client for the Meeting BaaS REST API.
//
// It covers recording bots (join, leave, meeting data, transcripts,
// retranscription, data deletion) and calendar integrations (calendars,
// events, recording schedules). Every request is authenticated with an API
// key obtained from a KeyProvider at call time, so one client can serve
// many MCP sessions with different keys.
//
// Failures are returned as *APIError with a Kind that tool handlers use to
// pick a user-facing message:
//
//	data, err := client.MeetingData(ctx, botID)
//	if baas.IsNotFound(err) {
//		...
//	}
package baas
