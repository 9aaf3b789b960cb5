package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// Attribute keys.
const (
	KeyOperation = "operation"
	KeyTool      = "tool"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyDuration  = "duration"
	KeyBotID     = "bot_id"
	KeySession   = "session_hash"
	KeyBackend   = "backend"
	KeyTier      = "tier"
)

// Status values. instrumentation keeps its own copy to stay import-free of
// this package's callers.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WithOperation returns a logger tagged with an operation.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger tagged with a tool name.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

func Tool(tool string) slog.Attr { return slog.String(KeyTool, tool) }

func Status(status string) slog.Attr { return slog.String(KeyStatus, status) }

func BotID(id string) slog.Attr { return slog.String(KeyBotID, id) }

func Backend(name string) slog.Attr { return slog.String(KeyBackend, name) }

func Tier(name string) slog.Attr { return slog.String(KeyTier, name) }

// Err returns the error attribute, or an empty group that slog drops when
// err is nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// HashID returns a short stable hash of an identifier.
func HashID(id string) string {
	if id == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:8])
}

// SessionHash returns the hashed session attribute.
func SessionHash(sessionID string) slog.Attr {
	return slog.String(KeySession, HashID(sessionID))
}

// SanitizeAPIKey hides a key entirely, keeping only its length.
func SanitizeAPIKey(key string) string {
	if key == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[key:%d chars]", len(key))
}
