package common

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/meeting-mcp/internal/session"
)

// BotID returns the bot_id argument, falling back to the bot the session
// used last.
func BotID(request mcp.CallToolRequest, st session.State) (string, error) {
	if id := strings.TrimSpace(request.GetString("bot_id", "")); id != "" {
		return id, nil
	}
	if id, ok := st.LastBot(); ok {
		return id, nil
	}
	return "", fmt.Errorf("bot_id is required")
}

// OptionalFloat returns a pointer to a numeric argument, or nil when the
// argument is absent.
func OptionalFloat(request mcp.CallToolRequest, name string) *float64 {
	args := request.GetArguments()
	if _, ok := args[name]; !ok {
		return nil
	}
	v := request.GetFloat(name, 0)
	return &v
}

// OptionalString returns a pointer to a non-empty string argument.
func OptionalString(request mcp.CallToolRequest, name string) *string {
	v := strings.TrimSpace(request.GetString(name, ""))
	if v == "" {
		return nil
	}
	return &v
}

// StringList accepts a single string, a comma separated string or an array
// of strings.
func StringList(request mcp.CallToolRequest, name string) []string {
	raw, ok := request.GetArguments()[name]
	if !ok || raw == nil {
		return nil
	}

	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
