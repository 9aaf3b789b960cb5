package analysis

import (
	"regexp"
)

// Pattern categories recognised by the importance scorer.
const (
	CategoryImportance = "importance"
	CategorySummary    = "summary"
	CategoryObligation = "obligation"
	CategoryDecision   = "decision"
	CategoryProblem    = "problem"
	CategorySolution   = "solution"
	CategoryNextSteps  = "next_steps"
)

// Descriptions attached to content candidates.
const (
	DescSummary         = "Summary or conclusion"
	DescNextSteps       = "Discussion about next steps"
	DescDecision        = "Decision point"
	DescProblem         = "Problem discussion"
	DescSolution        = "Solution discussion"
	DescHighlyImportant = "Highly important discussion"
	DescImportant       = "Important point"
	DescNotable         = "Notable discussion"
)

const (
	maxLengthBonus       = 2
	wordsPerLengthPoint  = 20
	highlyImportantScore = 5
	importantScore       = 3
)

// ImportanceScorer turns the segments of a chunk into content candidates.
type ImportanceScorer interface {
	ScoreSegments(chunk Chunk) []Candidate
}

type patternCategory struct {
	name   string
	weight int
	re     *regexp.Regexp
}

var importanceTable = []patternCategory{
	{CategoryImportance, 3, regexp.MustCompile(`(?i)\b(?:important|critical|crucial|essential|key|significant|vital|priority)\b`)},
	{CategorySummary, 4, regexp.MustCompile(`(?i)\b(?:in summary|to summarize|summing up|in conclusion|to conclude|overall|in short|wrap(?:ping)? up|recap)\b`)},
	{CategoryObligation, 2, regexp.MustCompile(`(?i)\b(?:needs? to|must|should|ha(?:ve|s) to)\b`)},
	{CategoryDecision, 3, regexp.MustCompile(`(?i)\b(?:agreed?|decided?|decision|consensus|approved?|let's go with)\b`)},
	{CategoryProblem, 2, regexp.MustCompile(`(?i)\b(?:problems?|issues?|challenges?|concerns?|risks?|blockers?|bugs?|difficult(?:y|ies)?)\b`)},
	{CategorySolution, 2, regexp.MustCompile(`(?i)\b(?:solutions?|solve[sd]?|resolve[sd]?|fix(?:e[sd])?|approach(?:es)?|workarounds?)\b`)},
	{CategoryNextSteps, 3, regexp.MustCompile(`(?i)\b(?:next steps?|action items?|follow[- ]?ups?|going forward|moving forward|deadlines?)\b`)},
}

// descriptionPriority lists the categories that name a candidate, first match wins.
var descriptionPriority = []struct {
	category    string
	description string
}{
	{CategorySummary, DescSummary},
	{CategoryNextSteps, DescNextSteps},
	{CategoryDecision, DescDecision},
	{CategoryProblem, DescProblem},
	{CategorySolution, DescSolution},
}

// SegmentScore is the result of scoring a single segment.
type SegmentScore struct {
	Score      int
	Categories map[string]bool
}

// ScoreText applies the weighted pattern table and the length bonus to text.
func ScoreText(text string, wordCount int) SegmentScore {
	res := SegmentScore{Categories: make(map[string]bool)}
	for _, cat := range importanceTable {
		if cat.re.MatchString(text) {
			res.Score += cat.weight
			res.Categories[cat.name] = true
		}
	}
	res.Score += min(maxLengthBonus, wordCount/wordsPerLengthPoint)
	return res
}

// Describe picks the human readable label for a scored segment.
func (s SegmentScore) Describe() string {
	for _, p := range descriptionPriority {
		if s.Categories[p.category] {
			return p.description
		}
	}
	switch {
	case s.Score > highlyImportantScore:
		return DescHighlyImportant
	case s.Score > importantScore:
		return DescImportant
	default:
		return DescNotable
	}
}

// PatternScorer is the rule-table ImportanceScorer.
type PatternScorer struct{}

// ScoreSegments returns one content candidate per segment with a positive score.
func (PatternScorer) ScoreSegments(chunk Chunk) []Candidate {
	var out []Candidate
	for _, seg := range chunk.Segments {
		if seg.Text == "" {
			continue
		}
		s := ScoreText(seg.Text, seg.WordCount())
		if s.Score <= 0 {
			continue
		}
		out = append(out, Candidate{
			Timestamp:   seg.StartTime,
			Speaker:     seg.Speaker,
			Text:        seg.Text,
			Importance:  s.Score,
			Type:        TypeContent,
			Description: s.Describe(),
		})
	}
	return out
}
