package analysis

const (
	DescMeetingStart      = "Meeting start"
	DescMeetingConclusion = "Meeting conclusion"

	startImportance      = 5
	conclusionImportance = 4
)

// ExtractStructural returns the meeting start and, when it is a different
// moment, the meeting conclusion. segments must be sorted by start time.
func ExtractStructural(segments []Segment) []Candidate {
	if len(segments) == 0 {
		return nil
	}

	first := segments[0]
	out := []Candidate{{
		Timestamp:   first.StartTime,
		Speaker:     first.Speaker,
		Text:        first.Text,
		Importance:  startImportance,
		Type:        TypeStructural,
		Description: DescMeetingStart,
	}}

	last := segments[len(segments)-1]
	if last.StartTime != first.StartTime {
		out = append(out, Candidate{
			Timestamp:   last.StartTime,
			Speaker:     last.Speaker,
			Text:        last.Text,
			Importance:  conclusionImportance,
			Type:        TypeStructural,
			Description: DescMeetingConclusion,
		})
	}
	return out
}
