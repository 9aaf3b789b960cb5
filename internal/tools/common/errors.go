package common

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/credentials"
)

// ErrorResult converts err into the tool result shown to the client. API
// errors carry their own user-facing text. action completes the sentence
// "Failed to ..." for everything else.
func ErrorResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(ErrorMessage(action, err))
}

// ErrorMessage is the text of ErrorResult.
func ErrorMessage(action string, err error) string {
	if errors.Is(err, credentials.ErrNoCredentials) {
		return "Authentication required: " + err.Error()
	}
	var apiErr *baas.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Failed to %s. %s", action, apiErr.UserMessage())
	}
	return fmt.Sprintf("Failed to %s: %v", action, err)
}
