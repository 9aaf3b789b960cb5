// Package logging holds the slog conventions used across the server.
//
// All logs go through log/slog. This package only fixes attribute names and
// makes sure secrets never reach a log line:
//
//	logger := logging.WithTool(slog.Default(), "find_key_moments")
//	logger.Info("report generated", logging.BotID(botID), logging.Status(logging.StatusSuccess))
//
// API keys are reduced to a length marker with SanitizeAPIKey, and MCP
// session ids are hashed with SessionHash so log lines can be correlated
// without exposing the id itself.
package logging
