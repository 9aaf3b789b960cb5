package links

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00"},
		{59.9, "00:59"},
		{61, "01:01"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
		{-4, "00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.in))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(0))
	assert.Equal(t, "1h2m5s", FormatDuration(3725))
}

func TestBuilder(t *testing.T) {
	b := NewBuilder("https://viewer.example.com/")

	assert.Equal(t, "https://viewer.example.com/bot-1", b.Recording("bot-1"))
	assert.Equal(t, "https://viewer.example.com/bot-1?t=125", b.At("bot-1", 125.7))
	assert.Equal(t, "https://viewer.example.com/bot-1?t=0", b.At("bot-1", -3))
	assert.Equal(t, "[02:05](https://viewer.example.com/bot-1?t=125)", b.Markdown("bot-1", 125))
}

func TestBuilderDefault(t *testing.T) {
	assert.Equal(t, DefaultViewerURL+"/abc", NewBuilder("").Recording("abc"))
}

func TestRenderShare(t *testing.T) {
	b := NewBuilder("https://v.example.com")
	share := NewShare("bot-9", "", []SegmentRef{
		{Timestamp: 30, Description: "Kickoff"},
		{Timestamp: 90},
	})

	out := b.Render(share)

	assert.NotEmpty(t, share.ID)
	assert.True(t, strings.HasPrefix(out, "## Meeting highlights\n"))
	assert.Contains(t, out, "1. [00:30](https://v.example.com/bot-9?t=30) Kickoff")
	assert.Contains(t, out, "2. [01:30](https://v.example.com/bot-9?t=90) Segment 2")
	assert.Contains(t, out, "Share ID: "+share.ID)
}
