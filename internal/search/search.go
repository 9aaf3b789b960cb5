// Package search answers free-text questions about a meeting transcript.
//
// A query runs through an ordered chain of strategies, from the most specific
// (a speaker plus search terms) to a plain listing of the filtered transcript.
// The first strategy that finds anything wins. Results from different
// strategies are never merged.
package search

import (
	"sort"
	"strings"

	"github.com/teemow/meeting-mcp/internal/analysis"
)

// Tier identifies the strategy that produced a result.
type Tier int

const (
	TierSpeakerTerms Tier = iota + 1
	TierSpeaker
	TierMultiTerm
	TierBasic
	TierListing
)

// String returns the metric and log label of a tier.
func (t Tier) String() string {
	switch t {
	case TierSpeakerTerms:
		return "speaker_terms"
	case TierSpeaker:
		return "speaker"
	case TierMultiTerm:
		return "multi_term"
	case TierBasic:
		return "basic"
	case TierListing:
		return "listing"
	default:
		return "unknown"
	}
}

// Sort orders.
const (
	SortByTime      = "time"
	SortByRelevance = "relevance"
)

// DefaultMaxResults caps the matches returned when the caller sets no limit.
const DefaultMaxResults = 20

// Filters are explicit constraints. They override anything parsed from the
// query text.
type Filters struct {
	Speaker   string
	StartTime *float64
	EndTime   *float64
}

// Query is a single search request.
type Query struct {
	Text           string
	Filters        Filters
	MaxResults     int
	IncludeContext bool
	SortBy         string
}

// Match is one segment in a result.
type Match struct {
	Segment analysis.Segment
	Before  *analysis.Segment
	After   *analysis.Segment
	// Hits is the number of distinct query words found in the segment.
	Hits int
}

// Result is the answer of the first strategy that matched.
type Result struct {
	Tier    Tier
	Parsed  ParsedQuery
	Speaker string
	Start   *float64
	End     *float64
	Total   int
	Matches []Match
}

// First returns the earliest matching segment, if any.
func (r Result) First() (analysis.Segment, bool) {
	if len(r.Matches) == 0 {
		return analysis.Segment{}, false
	}
	first := r.Matches[0].Segment
	for _, m := range r.Matches[1:] {
		if m.Segment.StartTime < first.StartTime {
			first = m.Segment
		}
	}
	return first, true
}

// plan is the per-call state shared by every strategy.
type plan struct {
	base    []analysis.Segment
	speaker string
	terms   string
}

// strategy returns nil when it does not apply or finds nothing.
type strategy struct {
	tier Tier
	run  func(p plan) []analysis.Segment
}

var strategies = []strategy{
	{TierSpeakerTerms, speakerTermsStrategy},
	{TierSpeaker, speakerStrategy},
	{TierMultiTerm, multiTermStrategy},
	{TierBasic, basicStrategy},
}

// Run executes the strategy chain over a transcript.
func Run(segments []analysis.Segment, q Query) Result {
	sorted := analysis.SortSegments(segments)
	parsed := ParseQuery(q.Text)

	res := Result{Parsed: parsed, Speaker: parsed.Speaker, Start: parsed.Start, End: parsed.End}
	if q.Filters.Speaker != "" {
		res.Speaker = q.Filters.Speaker
	}
	if q.Filters.StartTime != nil {
		res.Start = q.Filters.StartTime
	}
	if q.Filters.EndTime != nil {
		res.End = q.Filters.EndTime
	}

	p := plan{
		base:    FilterByTime(sorted, res.Start, res.End),
		speaker: res.Speaker,
		terms:   parsed.Terms,
	}

	var found []analysis.Segment
	res.Tier = TierListing
	for _, s := range strategies {
		if found = s.run(p); len(found) > 0 {
			res.Tier = s.tier
			break
		}
	}
	if len(found) == 0 {
		found = listingStrategy(p)
	}

	res.Total = len(found)
	res.Matches = buildMatches(sorted, found, Words(parsed.Terms), q)
	return res
}

func speakerTermsStrategy(p plan) []analysis.Segment {
	words := strings.Fields(strings.ToLower(p.terms))
	if p.speaker == "" || len(words) == 0 {
		return nil
	}
	var out []analysis.Segment
	for _, seg := range FilterBySpeaker(p.base, p.speaker) {
		text := strings.ToLower(seg.Text)
		for _, w := range words {
			if strings.Contains(text, w) {
				out = append(out, seg)
				break
			}
		}
	}
	return out
}

func speakerStrategy(p plan) []analysis.Segment {
	if p.speaker == "" {
		return nil
	}
	return FilterBySpeaker(p.base, p.speaker)
}

func multiTermStrategy(p plan) []analysis.Segment {
	words := Words(p.terms)
	if len(words) < 2 {
		return nil
	}
	threshold := max(1, len(words)/2)

	var out []analysis.Segment
	for _, seg := range p.base {
		if countHits(seg.Text, words) >= threshold {
			out = append(out, seg)
		}
	}
	return out
}

func basicStrategy(p plan) []analysis.Segment {
	return Basic(p.base, p.terms)
}

func listingStrategy(p plan) []analysis.Segment {
	if p.speaker != "" {
		return FilterBySpeaker(p.base, p.speaker)
	}
	return p.base
}

// Basic is a case-insensitive substring search over segment text.
func Basic(segments []analysis.Segment, query string) []analysis.Segment {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	var out []analysis.Segment
	for _, seg := range segments {
		if strings.Contains(strings.ToLower(seg.Text), needle) {
			out = append(out, seg)
		}
	}
	return out
}

// FilterByTime keeps segments starting inside [start, end]. Nil bounds are open.
func FilterByTime(segments []analysis.Segment, start, end *float64) []analysis.Segment {
	if start == nil && end == nil {
		return segments
	}
	var out []analysis.Segment
	for _, seg := range segments {
		if start != nil && seg.StartTime < *start {
			continue
		}
		if end != nil && seg.StartTime > *end {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// FilterBySpeaker prefers exact case-insensitive matches on the speaker name
// and falls back to a loose match when there are none. The loose match
// accepts a speaker containing the name, or a name containing the speaker's
// first name.
func FilterBySpeaker(segments []analysis.Segment, name string) []analysis.Segment {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	var exact []analysis.Segment
	for _, seg := range segments {
		if strings.EqualFold(seg.Speaker, name) {
			exact = append(exact, seg)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	lname := strings.ToLower(name)
	var fuzzy []analysis.Segment
	for _, seg := range segments {
		speaker := strings.ToLower(strings.TrimSpace(seg.Speaker))
		if speaker == "" {
			continue
		}
		first := strings.Fields(speaker)[0]
		if strings.Contains(speaker, lname) || strings.Contains(lname, first) {
			fuzzy = append(fuzzy, seg)
		}
	}
	return fuzzy
}

func countHits(text string, words []string) int {
	text = strings.ToLower(text)
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func buildMatches(all, found []analysis.Segment, words []string, q Query) []Match {
	matches := make([]Match, 0, len(found))
	for _, seg := range found {
		matches = append(matches, Match{Segment: seg, Hits: countHits(seg.Text, words)})
	}

	if q.SortBy == SortByRelevance {
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Hits > matches[j].Hits })
	} else {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Segment.StartTime < matches[j].Segment.StartTime
		})
	}

	limit := q.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	if q.IncludeContext {
		for i := range matches {
			matches[i].Before, matches[i].After = neighbours(all, matches[i].Segment)
		}
	}
	return matches
}

func neighbours(all []analysis.Segment, seg analysis.Segment) (before, after *analysis.Segment) {
	for i := range all {
		if all[i] != seg {
			continue
		}
		if i > 0 {
			b := all[i-1]
			before = &b
		}
		if i+1 < len(all) {
			a := all[i+1]
			after = &a
		}
		return before, after
	}
	return nil, nil
}
