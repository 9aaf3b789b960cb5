package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/meeting-mcp/internal/analysis"
)

func transcript() []analysis.Segment {
	return []analysis.Segment{
		{Speaker: "Alice Smith", StartTime: 0, Text: "Welcome everyone to the planning session"},
		{Speaker: "Bob", StartTime: 30, Text: "The budget looks tight this quarter"},
		{Speaker: "Alice Smith", StartTime: 60, Text: "I agree we should revisit hiring"},
		{Speaker: "Carol", StartTime: 90, Text: "Hiring plan and budget need alignment"},
		{Speaker: "Bob", StartTime: 400, Text: "Security review is scheduled"},
		{Speaker: "Alice Smith", StartTime: 700, Text: "Thanks all"},
	}
}

func startTimes(r Result) []float64 {
	out := make([]float64, 0, len(r.Matches))
	for _, m := range r.Matches {
		out = append(out, m.Segment.StartTime)
	}
	return out
}

func TestRun_Tiers(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		tier  Tier
		times []float64
	}{
		{
			name:  "speaker and terms",
			query: Query{Text: "what did Bob say about budget"},
			tier:  TierSpeakerTerms,
			times: []float64{30},
		},
		{
			name:  "speaker only when terms miss",
			query: Query{Text: "what did Alice say about kubernetes"},
			tier:  TierSpeaker,
			times: []float64{0, 60, 700},
		},
		{
			name:  "multi term partial match",
			query: Query{Text: "hiring budget alignment"},
			tier:  TierMultiTerm,
			times: []float64{30, 60, 90},
		},
		{
			name:  "single term substring",
			query: Query{Text: "review"},
			tier:  TierBasic,
			times: []float64{400},
		},
		{
			name:  "listing when nothing matches",
			query: Query{Text: "zebra"},
			tier:  TierListing,
			times: []float64{0, 30, 60, 90, 400, 700},
		},
		{
			name:  "time range from the query",
			query: Query{Text: "budget after 5"},
			tier:  TierListing,
			times: []float64{400, 700},
		},
		{
			name:  "explicit filter overrides the query",
			query: Query{Text: "budget after 5", Filters: Filters{StartTime: ptr(0)}},
			tier:  TierBasic,
			times: []float64{30, 90},
		},
		{
			name:  "explicit speaker filter",
			query: Query{Text: "hiring", Filters: Filters{Speaker: "carol"}},
			tier:  TierSpeakerTerms,
			times: []float64{90},
		},
		{
			name:  "empty time window",
			query: Query{Text: "budget", Filters: Filters{StartTime: ptr(1000)}},
			tier:  TierListing,
			times: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Run(transcript(), tt.query)
			assert.Equal(t, tt.tier, res.Tier)
			assert.Equal(t, tt.times, startTimes(res))
			assert.Equal(t, len(tt.times), res.Total)
		})
	}
}

func TestRun_SpeakerFallthroughReturnsExactlySpeakerSegments(t *testing.T) {
	segs := transcript()

	res := Run(segs, Query{Text: "what did Alice say about kubernetes"})

	require.Equal(t, TierSpeaker, res.Tier)
	var got []analysis.Segment
	for _, m := range res.Matches {
		got = append(got, m.Segment)
	}
	assert.Equal(t, FilterBySpeaker(segs, "Alice"), got)
}

func TestRun_SortByRelevance(t *testing.T) {
	res := Run(transcript(), Query{Text: "hiring budget alignment", SortBy: SortByRelevance})

	require.NotEmpty(t, res.Matches)
	assert.Equal(t, 90.0, res.Matches[0].Segment.StartTime)
	assert.Equal(t, 3, res.Matches[0].Hits)
}

func TestRun_MaxResultsKeepsTotal(t *testing.T) {
	res := Run(transcript(), Query{Text: "zebra", MaxResults: 2})

	assert.Len(t, res.Matches, 2)
	assert.Equal(t, 6, res.Total)
}

func TestRun_Context(t *testing.T) {
	res := Run(transcript(), Query{Text: "security", IncludeContext: true})

	require.Len(t, res.Matches, 1)
	m := res.Matches[0]
	require.NotNil(t, m.Before)
	require.NotNil(t, m.After)
	assert.Equal(t, 90.0, m.Before.StartTime)
	assert.Equal(t, 700.0, m.After.StartTime)

	edge := Run(transcript(), Query{Text: "welcome", IncludeContext: true})
	require.Len(t, edge.Matches, 1)
	assert.Nil(t, edge.Matches[0].Before)
}

func TestResultFirst(t *testing.T) {
	res := Run(transcript(), Query{Text: "hiring budget alignment", SortBy: SortByRelevance})
	first, ok := res.First()
	require.True(t, ok)
	assert.Equal(t, 30.0, first.StartTime)

	_, ok = Result{}.First()
	assert.False(t, ok)
}

func TestFilterBySpeaker(t *testing.T) {
	segs := transcript()

	assert.Len(t, FilterBySpeaker(segs, "bob"), 2, "case-insensitive exact match")
	assert.Len(t, FilterBySpeaker(segs, "alice"), 3, "speaker contains name")
	assert.Len(t, FilterBySpeaker(segs, "Carol Jones"), 1, "name contains first name")
	assert.Empty(t, FilterBySpeaker(segs, "Zed"))
	assert.Nil(t, FilterBySpeaker(segs, " "))
}

func TestBasic(t *testing.T) {
	assert.Len(t, Basic(transcript(), "BUDGET"), 2)
	assert.Nil(t, Basic(transcript(), ""))
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "speaker_terms", TierSpeakerTerms.String())
	assert.Equal(t, "listing", TierListing.String())
	assert.Equal(t, "unknown", Tier(0).String())
}
