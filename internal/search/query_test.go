package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		speaker string
		start   *float64
		end     *float64
		terms   string
	}{
		{
			name:    "what did NAME say about",
			query:   "what did Alice say about the budget",
			speaker: "Alice",
			terms:   "the budget",
		},
		{
			name:    "two word name",
			query:   "What did Alice Smith say about hiring?",
			speaker: "Alice Smith",
			terms:   "hiring",
		},
		{
			name:    "comments from",
			query:   "comments from Bob on hiring",
			speaker: "Bob",
			terms:   "on hiring",
		},
		{
			name:    "possessive thoughts",
			query:   "Carol's thoughts on pricing",
			speaker: "Carol",
			terms:   "pricing",
		},
		{
			name:    "when NAME spoke",
			query:   "when Dave spoke about security",
			speaker: "Dave",
			terms:   "security",
		},
		{
			name:  "between minutes",
			query: "budget between 5 and 10 minutes",
			start: ptr(300),
			end:   ptr(600),
			terms: "budget",
		},
		{
			name:  "between reversed",
			query: "budget between 10 and 5",
			start: ptr(300),
			end:   ptr(600),
			terms: "budget",
		},
		{
			name:  "after clock time",
			query: "pricing after 12:30",
			start: ptr(750),
			terms: "pricing",
		},
		{
			name:  "before minutes",
			query: "intro before 2 minutes",
			end:   ptr(120),
			terms: "intro",
		},
		{
			name:  "after and before",
			query: "roadmap after 5 before minute 15",
			start: ptr(300),
			end:   ptr(900),
			terms: "roadmap",
		},
		{
			name:  "around clamps at zero",
			query: "demo around 1",
			start: ptr(0),
			end:   ptr(180),
			terms: "demo",
		},
		{
			name:  "around",
			query: "demo around 10 minutes",
			start: ptr(480),
			end:   ptr(720),
			terms: "demo",
		},
		{
			name:    "nothing left falls back to full query",
			query:   "what did Alice say",
			speaker: "Alice",
			terms:   "what did Alice say",
		},
		{
			name:  "plain terms",
			query: "deployment plan",
			terms: "deployment plan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseQuery(tt.query)
			assert.Equal(t, tt.speaker, p.Speaker)
			assert.Equal(t, tt.terms, p.Terms)
			assertBound(t, "start", tt.start, p.Start)
			assertBound(t, "end", tt.end, p.End)
		})
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"the", "budget", "plan", "for"}, Words("The budget is a plan for THE budget"))
	assert.Empty(t, Words("a to of"))
}

func ptr(v float64) *float64 { return &v }

func assertBound(t *testing.T, name string, want, got *float64) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, name)
		return
	}
	require.NotNil(t, got, name)
	assert.Equal(t, *want, *got, name)
}
