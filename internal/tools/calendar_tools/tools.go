package calendar_tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/server"
)

// RegisterCalendarTools registers all calendar tools with the MCP server.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := RegisterCalendarListTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register calendar list tools: %w", err)
	}
	if err := RegisterEventTools(s, sc); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}
	if !readOnly {
		if err := RegisterSchedulingTools(s, sc); err != nil {
			return fmt.Errorf("failed to register scheduling tools: %w", err)
		}
	}
	return nil
}

// oauthOptions are the arguments shared by the tools taking an OAuth grant.
func oauthOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("platform",
			mcp.Required(),
			mcp.Description("Calendar provider"),
			mcp.Enum(baas.PlatformGoogle, baas.PlatformMicrosoft),
		),
		mcp.WithString("oauth_client_id",
			mcp.Required(),
			mcp.Description("OAuth client ID of your calendar app"),
		),
		mcp.WithString("oauth_client_secret",
			mcp.Required(),
			mcp.Description("OAuth client secret of your calendar app"),
		),
		mcp.WithString("oauth_refresh_token",
			mcp.Required(),
			mcp.Description("OAuth refresh token of the calendar owner"),
		),
	}
}

func oauthFromRequest(request mcp.CallToolRequest) (baas.OAuthCredentials, error) {
	creds := baas.OAuthCredentials{
		Platform:          request.GetString("platform", ""),
		OAuthClientID:     strings.TrimSpace(request.GetString("oauth_client_id", "")),
		OAuthClientSecret: strings.TrimSpace(request.GetString("oauth_client_secret", "")),
		OAuthRefreshToken: strings.TrimSpace(request.GetString("oauth_refresh_token", "")),
		RawCalendarID:     strings.TrimSpace(request.GetString("raw_calendar_id", "")),
	}

	switch {
	case strings.EqualFold(creds.Platform, baas.PlatformGoogle):
		creds.Platform = baas.PlatformGoogle
	case strings.EqualFold(creds.Platform, baas.PlatformMicrosoft):
		creds.Platform = baas.PlatformMicrosoft
	default:
		return creds, fmt.Errorf("platform must be one of: Google, Microsoft")
	}
	if creds.OAuthClientID == "" || creds.OAuthClientSecret == "" || creds.OAuthRefreshToken == "" {
		return creds, fmt.Errorf("oauth_client_id, oauth_client_secret and oauth_refresh_token are required")
	}
	return creds, nil
}

func requireID(request mcp.CallToolRequest, name string) (string, error) {
	id, err := request.RequireString(name)
	if err != nil || strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return strings.TrimSpace(id), nil
}

func writeCalendar(sb *strings.Builder, cal baas.Calendar) {
	fmt.Fprintf(sb, "%s\n", cal.Name)
	fmt.Fprintf(sb, "   ID: %s\n", cal.UUID)
	if cal.Email != "" {
		fmt.Fprintf(sb, "   Email: %s\n", cal.Email)
	}
	switch {
	case cal.GoogleID != "":
		fmt.Fprintf(sb, "   Google calendar: %s\n", cal.GoogleID)
	case cal.MicrosoftID != "":
		fmt.Fprintf(sb, "   Microsoft calendar: %s\n", cal.MicrosoftID)
	}
}

func writeEvent(sb *strings.Builder, ev baas.Event) {
	name := ev.Name
	if name == "" {
		name = "(untitled event)"
	}
	fmt.Fprintf(sb, "%s\n", name)
	fmt.Fprintf(sb, "   ID: %s\n", ev.UUID)
	if !ev.StartTime.IsZero() {
		fmt.Fprintf(sb, "   Start: %s\n", ev.StartTime.Format(time.RFC3339))
	}
	if !ev.EndTime.IsZero() {
		fmt.Fprintf(sb, "   End: %s\n", ev.EndTime.Format(time.RFC3339))
	}
	if ev.MeetingURL != "" {
		fmt.Fprintf(sb, "   Meeting: %s\n", ev.MeetingURL)
	}
	if ev.IsRecurring {
		sb.WriteString("   Recurring: yes\n")
	}
	if len(ev.Attendees) > 0 {
		fmt.Fprintf(sb, "   Attendees: %d\n", len(ev.Attendees))
	}
	if ev.Scheduled() {
		fmt.Fprintf(sb, "   Recording: scheduled (bot %q)\n", ev.BotParam.BotName)
	} else {
		sb.WriteString("   Recording: not scheduled\n")
	}
}
