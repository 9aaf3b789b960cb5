package resources

import (
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/meeting-mcp/internal/tools/toolstest"
)

func readRequest(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func text(t *testing.T, contents []mcp.ResourceContents) string {
	t.Helper()
	require.Len(t, contents, 1)
	tc, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	return tc.Text
}

func TestTranscriptResource(t *testing.T) {
	sc := toolstest.NewServerContext(t, toolstest.MeetingAPI())

	uri := "meeting://bots/bot-1/transcript"
	contents, err := handleTranscript(toolstest.Context(), readRequest(uri), sc)
	require.NoError(t, err)

	out := text(t, contents)
	assert.Contains(t, out, "Transcript segments 1-3 of 3")
	assert.Contains(t, out, "[00:20] Bob: I think the budget is a key issue we must resolve")
	assert.NotContains(t, out, "more segment(s)")

	_, st := sc.Session(toolstest.Context())
	last, ok := st.LastBot()
	require.True(t, ok)
	assert.Equal(t, "bot-1", last)
}

func TestTranscriptResource_Errors(t *testing.T) {
	sc := toolstest.NewServerContext(t, toolstest.MeetingAPI())

	_, err := handleTranscript(toolstest.Context(), readRequest("meeting://bots/missing/transcript"), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get transcript for missing")

	_, err = handleTranscript(toolstest.Context(), readRequest("meeting://bots//transcript"), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transcript URI")
}

func TestTranscriptBotID(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{uri: "meeting://bots/abc-123/transcript", want: "abc-123"},
		{uri: "meeting://bots/abc/other", wantErr: true},
		{uri: "meeting://bots/a/b/transcript", wantErr: true},
		{uri: "user://profile", wantErr: true},
	}
	for _, tt := range tests {
		got, err := transcriptBotID(tt.uri)
		if tt.wantErr {
			assert.Error(t, err, tt.uri)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRecentBotsResource(t *testing.T) {
	sc := toolstest.NewServerContext(t, toolstest.MeetingAPI())

	contents, err := handleRecentBots(toolstest.Context(), readRequest(RecentBotsURI), sc)
	require.NoError(t, err)
	var empty recentBotsPayload
	require.NoError(t, json.Unmarshal([]byte(text(t, contents)), &empty))
	assert.Equal(t, "sqlite", empty.Backend)
	assert.Empty(t, empty.Bots)

	_, err = handleTranscript(toolstest.Context(), readRequest("meeting://bots/bot-1/transcript"), sc)
	require.NoError(t, err)

	contents, err = handleRecentBots(toolstest.Context(), readRequest(RecentBotsURI), sc)
	require.NoError(t, err)
	var payload recentBotsPayload
	require.NoError(t, json.Unmarshal([]byte(text(t, contents)), &payload))
	require.Len(t, payload.Bots, 1)
	assert.Equal(t, "bot-1", payload.Bots[0].BotID)
	assert.Equal(t, "Weekly sync", payload.Bots[0].BotName)
}
