package analysis

import "strings"

// DefaultSegmentDuration is the assumed length of a segment whose end time is unknown.
const DefaultSegmentDuration = 5.0

// Segment is one transcribed utterance.
type Segment struct {
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	// EndTime is zero when the upstream did not report one.
	EndTime float64 `json:"end_time,omitempty"`
}

// End returns the segment end, falling back to a fixed-length estimate.
func (s Segment) End() float64 {
	if s.EndTime > s.StartTime {
		return s.EndTime
	}
	return s.StartTime + DefaultSegmentDuration
}

// WordCount returns the number of whitespace separated words in the text.
func (s Segment) WordCount() int {
	return len(strings.Fields(s.Text))
}

// Chunk is a contiguous group of segments whose start times all fall within
// a bounded window measured from the first segment.
type Chunk struct {
	Segments []Segment
}

// StartTime returns the reference time of the chunk.
func (c Chunk) StartTime() float64 {
	if len(c.Segments) == 0 {
		return 0
	}
	return c.Segments[0].StartTime
}

// EndTime returns the end of the last segment in the chunk.
func (c Chunk) EndTime() float64 {
	if len(c.Segments) == 0 {
		return 0
	}
	return c.Segments[len(c.Segments)-1].End()
}

// Text joins the text of every segment with single spaces.
func (c Chunk) Text() string {
	parts := make([]string, 0, len(c.Segments))
	for _, seg := range c.Segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}

// CandidateType identifies which detector produced a candidate.
type CandidateType string

const (
	TypeContent      CandidateType = "content"
	TypeConversation CandidateType = "conversation"
	TypeStructural   CandidateType = "structural"
)

// Candidate is a segment proposed as a key moment, before ranking.
type Candidate struct {
	Timestamp   float64
	Speaker     string
	Text        string
	Importance  int
	Type        CandidateType
	Description string
}

// KeyMoment is a ranked candidate projected to its display fields.
type KeyMoment struct {
	Timestamp   float64       `json:"timestamp"`
	Speaker     string        `json:"speaker"`
	Description string        `json:"description"`
	Text        string        `json:"text,omitempty"`
	Type        CandidateType `json:"type"`
}
