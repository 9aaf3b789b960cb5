package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/meeting-mcp/internal/analysis"
	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/links"
)

func TestNewTranscriptPage(t *testing.T) {
	segs := []analysis.Segment{
		{Speaker: "Alice", Text: "one", StartTime: 0},
		{Speaker: "Bob", Text: "two", StartTime: 65},
		{Speaker: "", Text: "three", StartTime: 130},
	}
	b := links.NewBuilder("https://viewer.example.com")

	tests := []struct {
		name          string
		offset, limit int
		want          int
		contains      []string
	}{
		{name: "all", limit: 10, want: 3, contains: []string{"Transcript segments 1-3 of 3", "[01:05] Bob: two", "[02:10] Unknown: three"}},
		{name: "first page", limit: 2, want: 2, contains: []string{"1 more segment(s), continue with offset=2"}},
		{name: "second page", offset: 2, limit: 2, want: 1, contains: []string{"Transcript segments 3-3 of 3"}},
		{name: "past the end", offset: 5, limit: 2, want: 0, contains: []string{"No transcript segments at offset 5"}},
		{name: "default limit", offset: -1, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewTranscriptPage(b, "bot-1", segs, tt.offset, tt.limit)
			assert.Len(t, page.Segments, tt.want)
			text := page.Text()
			for _, c := range tt.contains {
				assert.Contains(t, text, c)
			}
		})
	}
}

func TestTranscriptPage_Empty(t *testing.T) {
	page := NewTranscriptPage(links.NewBuilder("https://viewer.example.com"), "bot-1", nil, 0, 0)
	assert.Contains(t, page.Text(), "https://viewer.example.com/bot-1")
}

func TestMeetingSummary_Text(t *testing.T) {
	end := 12.0
	data := &baas.MeetingData{
		Duration: 3725,
		MP4:      "https://files.example.com/bot-1.mp4",
		BotData: &baas.BotData{
			Bot: baas.Bot{BotName: "Weekly sync", MeetingURL: "https://meet.example.com/abc"},
			Transcripts: []baas.Transcript{
				{Speaker: "Alice", StartTime: 0, EndTime: &end, Words: []baas.Word{{Text: "hello"}}},
				{Speaker: "Bob", StartTime: 12, Words: []baas.Word{{Text: "hi"}}},
			},
		},
	}
	svc := NewService(Config{Links: links.NewBuilder("https://viewer.example.com")})

	text := svc.Summary("bot-1", data).Text()
	assert.Contains(t, text, "# Weekly sync")
	assert.Contains(t, text, "Meeting URL: https://meet.example.com/abc")
	assert.Contains(t, text, "Duration: 1h2m5s")
	assert.Contains(t, text, "Recording: https://viewer.example.com/bot-1")
	assert.Contains(t, text, "Transcript segments: 2")
	assert.Contains(t, text, "Speakers: Alice, Bob")
	assert.NotContains(t, text, "Started:")
}
