package analysis

import "fmt"

const (
	conversationWindow  = 3
	conversationMaxSpan = 60.0
	conversationBase    = 2
)

// DetectConversations finds rapid exchanges between speakers. It walks the
// chunk in windows of three segments. A window becomes a candidate when at
// least two distinct named speakers take part and the first and third segment
// start less than a minute apart. Matched windows are consumed whole, so
// emitted windows never overlap.
func DetectConversations(chunk Chunk) []Candidate {
	segs := chunk.Segments
	var out []Candidate

	for i := 0; i+conversationWindow-1 < len(segs); {
		window := segs[i : i+conversationWindow]
		speakers := distinctSpeakers(window)
		span := window[len(window)-1].StartTime - window[0].StartTime

		if speakers >= 2 && span < conversationMaxSpan {
			out = append(out, Candidate{
				Timestamp:   window[0].StartTime,
				Speaker:     window[0].Speaker,
				Text:        window[0].Text,
				Importance:  conversationBase + speakers,
				Type:        TypeConversation,
				Description: fmt.Sprintf("Active discussion with %d participants", speakers),
			})
			i += conversationWindow
			continue
		}
		i++
	}
	return out
}

func distinctSpeakers(segs []Segment) int {
	seen := make(map[string]struct{}, len(segs))
	for _, s := range segs {
		if s.Speaker == "" {
			continue
		}
		seen[s.Speaker] = struct{}{}
	}
	return len(seen)
}
