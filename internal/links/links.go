// Package links builds viewer URLs for meeting recordings.
package links

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultViewerURL is the recording viewer used when none is configured.
const DefaultViewerURL = "https://meetingbaas.com/viewer"

// FormatTimestamp renders seconds as MM:SS, or HH:MM:SS from one hour on.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatDuration renders a length in seconds as "1h 2m 3s" style text.
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	return (time.Duration(seconds) * time.Second).Round(time.Second).String()
}

// Builder creates links against a viewer base URL.
type Builder struct {
	base string
}

// NewBuilder returns a Builder for the given viewer URL.
func NewBuilder(viewerURL string) Builder {
	if viewerURL == "" {
		viewerURL = DefaultViewerURL
	}
	return Builder{base: strings.TrimRight(viewerURL, "/")}
}

// Recording returns the plain viewer link for a bot.
func (b Builder) Recording(botID string) string {
	return b.base + "/" + url.PathEscape(botID)
}

// At returns a viewer link that starts playback at the given offset.
func (b Builder) At(botID string, seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%s?t=%d", b.Recording(botID), int(seconds))
}

// Markdown returns a "[MM:SS](link)" reference.
func (b Builder) Markdown(botID string, seconds float64) string {
	return fmt.Sprintf("[%s](%s)", FormatTimestamp(seconds), b.At(botID, seconds))
}

// SegmentRef is a timestamp worth sharing, with an optional caption.
type SegmentRef struct {
	Timestamp   float64 `json:"timestamp"`
	Description string  `json:"description"`
}

// Share is a titled set of timestamped links.
type Share struct {
	ID       string
	BotID    string
	Title    string
	Segments []SegmentRef
}

// NewShare creates a share with a fresh identifier.
func NewShare(botID, title string, segments []SegmentRef) Share {
	return Share{ID: uuid.NewString(), BotID: botID, Title: title, Segments: segments}
}

// Render formats the share as a markdown block.
func (b Builder) Render(s Share) string {
	var sb strings.Builder
	title := s.Title
	if title == "" {
		title = "Meeting highlights"
	}
	fmt.Fprintf(&sb, "## %s\n\n", title)
	fmt.Fprintf(&sb, "Recording: %s\n\n", b.Recording(s.BotID))
	for i, seg := range s.Segments {
		desc := seg.Description
		if desc == "" {
			desc = "Segment " + fmt.Sprint(i+1)
		}
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, b.Markdown(s.BotID, seg.Timestamp), desc)
	}
	fmt.Fprintf(&sb, "\nShare ID: %s\n", s.ID)
	return sb.String()
}
