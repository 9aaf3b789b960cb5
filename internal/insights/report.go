package insights

import (
	"fmt"
	"strings"

	"github.com/teemow/meeting-mcp/internal/analysis"
	"github.com/teemow/meeting-mcp/internal/links"
	"github.com/teemow/meeting-mcp/internal/search"
)

const maxQuoteWords = 40

// KeyMomentsReport is the outcome of FindKeyMoments.
type KeyMomentsReport struct {
	BotID         string
	Title         string
	Duration      float64
	SegmentCount  int
	Result        analysis.Result
	TopicMentions []analysis.TopicMention
	links         links.Builder
}

// Empty reports whether no key moment was found.
func (r *KeyMomentsReport) Empty() bool {
	return len(r.Result.Moments) == 0
}

// Text renders the report as markdown.
func (r *KeyMomentsReport) Text() string {
	if r.Empty() {
		return noResults("No key moments found in this meeting.", r.links.Recording(r.BotID))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Key moments: %s\n\n", r.Title)
	fmt.Fprintf(&sb, "Recording: %s\n", r.links.Recording(r.BotID))
	fmt.Fprintf(&sb, "Duration: %s, %d segments in %d chunks\n",
		links.FormatDuration(r.Duration), r.SegmentCount, r.Result.ChunkCount)

	if len(r.Result.Topics) > 0 {
		sb.WriteString("\n## Topics\n\n")
		for _, t := range r.Result.Topics {
			fmt.Fprintf(&sb, "- %s\n", t)
		}
	}

	if len(r.TopicMentions) > 0 {
		sb.WriteString("\n## Requested topics\n\n")
		for _, m := range r.TopicMentions {
			if !m.Found {
				fmt.Fprintf(&sb, "- %s: not mentioned\n", m.Topic)
				continue
			}
			fmt.Fprintf(&sb, "- %s: first mentioned at %s by %s\n",
				m.Topic, r.links.Markdown(r.BotID, m.Segment.StartTime), speakerName(m.Segment.Speaker))
		}
	}

	sb.WriteString("\n## Key moments\n\n")
	for i, km := range r.Result.Moments {
		fmt.Fprintf(&sb, "%d. %s **%s** (%s)", i+1, r.links.Markdown(r.BotID, km.Timestamp), km.Description, speakerName(km.Speaker))
		if km.Text != "" {
			fmt.Fprintf(&sb, ": \"%s\"", quote(km.Text))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// SearchReport is the outcome of IntelligentSearch.
type SearchReport struct {
	BotID  string
	Query  string
	Result search.Result
	links  links.Builder
}

// Empty reports whether the search found nothing.
func (r *SearchReport) Empty() bool {
	return r.Result.Total == 0
}

// Text renders the search answer as markdown.
func (r *SearchReport) Text() string {
	if r.Empty() {
		return noResults(fmt.Sprintf("No results found for %q.", r.Query), r.links.Recording(r.BotID))
	}

	res := r.Result
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s) for %q (strategy: %s)\n", res.Total, r.Query, res.Tier)
	if res.Speaker != "" {
		fmt.Fprintf(&sb, "Speaker: %s\n", res.Speaker)
	}
	if res.Start != nil || res.End != nil {
		fmt.Fprintf(&sb, "Time range: %s\n", timeRange(res.Start, res.End))
	}
	if first, ok := res.First(); ok {
		fmt.Fprintf(&sb, "Watch from beginning: %s\n", r.links.At(r.BotID, first.StartTime))
	}
	sb.WriteString("\n")

	for i, m := range res.Matches {
		fmt.Fprintf(&sb, "%d. %s %s: %s\n", i+1,
			r.links.Markdown(r.BotID, m.Segment.StartTime), speakerName(m.Segment.Speaker), m.Segment.Text)
		if m.Before != nil {
			fmt.Fprintf(&sb, "   before: %s: %s\n", speakerName(m.Before.Speaker), quote(m.Before.Text))
		}
		if m.After != nil {
			fmt.Fprintf(&sb, "   after: %s: %s\n", speakerName(m.After.Speaker), quote(m.After.Text))
		}
	}
	if len(res.Matches) < res.Total {
		fmt.Fprintf(&sb, "\nShowing %d of %d results.\n", len(res.Matches), res.Total)
	}
	return sb.String()
}

// TranscriptMatches is the outcome of SearchTranscript.
type TranscriptMatches struct {
	BotID    string
	Query    string
	Segments []analysis.Segment
	links    links.Builder
}

// Text renders the matches as markdown.
func (t *TranscriptMatches) Text() string {
	if len(t.Segments) == 0 {
		return noResults(fmt.Sprintf("No transcript segments contain %q.", t.Query), t.links.Recording(t.BotID))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d segment(s) containing %q\n\n", len(t.Segments), t.Query)
	for _, seg := range t.Segments {
		fmt.Fprintf(&sb, "- %s %s: %s\n", t.links.Markdown(t.BotID, seg.StartTime), speakerName(seg.Speaker), seg.Text)
	}
	return sb.String()
}

func noResults(msg, recording string) string {
	return msg + "\nWatch the full recording: " + recording + "\n"
}

func speakerName(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func quote(text string) string {
	words := strings.Fields(text)
	if len(words) <= maxQuoteWords {
		return text
	}
	return strings.Join(words[:maxQuoteWords], " ") + "..."
}

func timeRange(start, end *float64) string {
	from, to := "start", "end"
	if start != nil {
		from = links.FormatTimestamp(*start)
	}
	if end != nil {
		to = links.FormatTimestamp(*end)
	}
	return from + " - " + to
}
