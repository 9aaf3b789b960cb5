package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/meeting-mcp/internal/analysis"
	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/links"
	"github.com/teemow/meeting-mcp/internal/session"
)

// DefaultTranscriptLimit is the page size of Transcript when none is given.
const DefaultTranscriptLimit = 100

// TranscriptPage is a window of a meeting transcript.
type TranscriptPage struct {
	BotID    string
	Offset   int
	Total    int
	Segments []analysis.Segment
	links    links.Builder
}

// Transcript returns limit segments starting at offset.
func (s *Service) Transcript(ctx context.Context, st session.State, botID string, offset, limit int) (*TranscriptPage, session.State, error) {
	data, next, err := s.Meeting(ctx, st, botID)
	if err != nil {
		return nil, st, err
	}
	return NewTranscriptPage(s.links, botID, data.Segments(), offset, limit), next, nil
}

// NewTranscriptPage slices segments. Out of range offsets give an empty page.
func NewTranscriptPage(b links.Builder, botID string, segments []analysis.Segment, offset, limit int) *TranscriptPage {
	if limit <= 0 {
		limit = DefaultTranscriptLimit
	}
	offset = max(0, offset)
	page := &TranscriptPage{BotID: botID, Offset: offset, Total: len(segments), links: b}
	if offset < len(segments) {
		page.Segments = segments[offset:min(len(segments), offset+limit)]
	}
	return page
}

// Text renders one line per segment.
func (p *TranscriptPage) Text() string {
	if p.Total == 0 {
		return noResults("This meeting has no transcript.", p.links.Recording(p.BotID))
	}
	if len(p.Segments) == 0 {
		return fmt.Sprintf("No transcript segments at offset %d, the transcript has %d.\n", p.Offset, p.Total)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Transcript segments %d-%d of %d\n\n", p.Offset+1, p.Offset+len(p.Segments), p.Total)
	for _, seg := range p.Segments {
		fmt.Fprintf(&sb, "[%s] %s: %s\n", links.FormatTimestamp(seg.StartTime), speakerName(seg.Speaker), seg.Text)
	}
	if rest := p.Total - p.Offset - len(p.Segments); rest > 0 {
		fmt.Fprintf(&sb, "\n%d more segment(s), continue with offset=%d\n", rest, p.Offset+len(p.Segments))
	}
	return sb.String()
}

// MeetingSummary describes a meeting without its transcript.
type MeetingSummary struct {
	BotID string
	Data  *baas.MeetingData
	links links.Builder
}

// Summary wraps data for rendering.
func (s *Service) Summary(botID string, data *baas.MeetingData) *MeetingSummary {
	return &MeetingSummary{BotID: botID, Data: data, links: s.links}
}

// Text renders the summary as markdown.
func (m *MeetingSummary) Text() string {
	var sb strings.Builder
	bot := baas.Bot{}
	if m.Data.BotData != nil {
		bot = m.Data.BotData.Bot
	}

	fmt.Fprintf(&sb, "# %s\n\n", meetingTitle("", m.Data))
	fmt.Fprintf(&sb, "Bot ID: %s\n", m.BotID)
	if bot.MeetingURL != "" {
		fmt.Fprintf(&sb, "Meeting URL: %s\n", bot.MeetingURL)
	}
	if !bot.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "Started: %s\n", bot.CreatedAt.Format(time.RFC3339))
	}
	if !bot.EndedAt.IsZero() {
		fmt.Fprintf(&sb, "Ended: %s\n", bot.EndedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "Duration: %s\n", links.FormatDuration(m.Data.Duration))
	fmt.Fprintf(&sb, "Recording: %s\n", m.links.Recording(m.BotID))
	if m.Data.MP4 != "" {
		fmt.Fprintf(&sb, "Video file: %s\n", m.Data.MP4)
	}

	segments := m.Data.Segments()
	fmt.Fprintf(&sb, "Transcript segments: %d\n", len(segments))
	if speakers := m.Data.Speakers(); len(speakers) > 0 {
		fmt.Fprintf(&sb, "Speakers: %s\n", strings.Join(speakers, ", "))
	}
	return sb.String()
}
