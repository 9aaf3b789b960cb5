package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreText(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		score       int
		description string
	}{
		{
			name:        "problem language wins the description",
			text:        "I think the budget is a key issue we must resolve",
			score:       9,
			description: DescProblem,
		},
		{
			name:        "summary",
			text:        "In conclusion, thanks everyone",
			score:       4,
			description: DescSummary,
		},
		{
			name:        "next steps",
			text:        "What are the next steps here",
			score:       3,
			description: DescNextSteps,
		},
		{
			name:        "decision",
			text:        "We agreed on the plan",
			score:       3,
			description: DescDecision,
		},
		{
			name:        "summary outranks decision",
			text:        "To summarize, we decided to ship",
			score:       7,
			description: DescSummary,
		},
		{
			name:        "solution",
			text:        "There is a workaround for that",
			score:       2,
			description: DescSolution,
		},
		{
			name:        "importance alone is notable",
			text:        "This is important",
			score:       3,
			description: DescNotable,
		},
		{
			name:        "importance plus obligation",
			text:        "This is critical and we have to act",
			score:       5,
			description: DescImportant,
		},
		{
			name: "length bonus pushes to highly important",
			text: "It is important that we must keep going with all of the work that everyone " +
				"here has been doing over the past several weeks together",
			score:       6,
			description: DescHighlyImportant,
		},
		{
			name:        "length bonus is capped",
			text:        strings.TrimSpace(strings.Repeat("word ", 60)),
			score:       2,
			description: DescNotable,
		},
		{
			name:  "nothing matches",
			text:  "Let's start the meeting",
			score: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScoreText(tt.text, len(strings.Fields(tt.text)))
			assert.Equal(t, tt.score, s.Score)
			if tt.description != "" {
				assert.Equal(t, tt.description, s.Describe())
			}
		})
	}
}

func TestPatternScorer_ScoreSegments(t *testing.T) {
	chunk := Chunk{Segments: []Segment{
		{Speaker: "A", Text: "Let's start the meeting", StartTime: 0},
		{Speaker: "B", Text: "", StartTime: 5},
		{Speaker: "B", Text: "I think the budget is a key issue we must resolve", StartTime: 20},
	}}

	got := PatternScorer{}.ScoreSegments(chunk)

	require.Len(t, got, 1)
	assert.Equal(t, Candidate{
		Timestamp:   20,
		Speaker:     "B",
		Text:        "I think the budget is a key issue we must resolve",
		Importance:  9,
		Type:        TypeContent,
		Description: DescProblem,
	}, got[0])
}

func TestPatternScorer_Idempotent(t *testing.T) {
	chunk := Chunk{Segments: []Segment{
		{Speaker: "A", Text: "We need to fix the deployment issue", StartTime: 0},
		{Speaker: "B", Text: "Agreed, that is the priority", StartTime: 12},
	}}
	s := PatternScorer{}

	assert.Equal(t, s.ScoreSegments(chunk), s.ScoreSegments(chunk))
}
