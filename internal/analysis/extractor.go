package analysis

import (
	"fmt"
	"strings"
)

// Granularity controls how finely a meeting is chunked.
type Granularity string

const (
	GranularityHigh   Granularity = "high"
	GranularityMedium Granularity = "medium"
	GranularityLow    Granularity = "low"
)

// Defaults for key moment extraction.
const (
	DefaultMaxMoments       = 5
	DefaultInitialChunkSize = 1200
	DefaultGranularity      = GranularityHigh
)

// ParseGranularity validates a granularity name. Empty selects the default.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return DefaultGranularity, nil
	case GranularityHigh, GranularityMedium, GranularityLow:
		return g, nil
	default:
		return "", fmt.Errorf("invalid granularity %q, must be one of: high, medium, low", s)
	}
}

func (g Granularity) divisor() float64 {
	switch g {
	case GranularityLow:
		return 1
	case GranularityMedium:
		return 2
	default:
		return 4
	}
}

// Options tunes a single extraction.
type Options struct {
	MaxMoments  int
	Granularity Granularity
	// InitialChunkSize is the coarse window in seconds, divided by the
	// granularity to obtain the chunk duration.
	InitialChunkSize float64
	AutoDetectTopics bool
}

// DefaultOptions returns the options used when a caller supplies none.
func DefaultOptions() Options {
	return Options{
		MaxMoments:       DefaultMaxMoments,
		Granularity:      DefaultGranularity,
		InitialChunkSize: DefaultInitialChunkSize,
		AutoDetectTopics: true,
	}
}

// ChunkDuration is the chunk window implied by the options.
func (o Options) ChunkDuration() float64 {
	size := o.InitialChunkSize
	if size <= 0 {
		size = DefaultInitialChunkSize
	}
	return size / o.Granularity.divisor()
}

// Result is the outcome of an extraction.
type Result struct {
	Moments    []KeyMoment
	Topics     []string
	ChunkCount int
	// Duration is the end of the last segment in seconds.
	Duration float64
}

// Extractor wires the detectors together. Either detector can be replaced.
type Extractor struct {
	Topics TopicDetector
	Scorer ImportanceScorer
}

// NewExtractor returns an Extractor using the heuristic detectors.
func NewExtractor() *Extractor {
	return &Extractor{
		Topics: HeuristicTopicDetector{},
		Scorer: PatternScorer{},
	}
}

// Extract runs the full pipeline over segments.
func (e *Extractor) Extract(segments []Segment, opts Options) Result {
	sorted := SortSegments(segments)
	chunks := ChunkSegments(sorted, opts.ChunkDuration())

	var (
		candidates []Candidate
		topicLists [][]string
	)
	for _, chunk := range chunks {
		if opts.AutoDetectTopics && e.Topics != nil {
			topicLists = append(topicLists, e.Topics.DetectTopics(chunk))
		}
		if e.Scorer != nil {
			candidates = append(candidates, e.Scorer.ScoreSegments(chunk)...)
		}
		candidates = append(candidates, DetectConversations(chunk)...)
	}
	candidates = append(candidates, ExtractStructural(sorted)...)

	topics := MergeTopics(topicLists...)
	if len(topics) > MaxTopics {
		topics = topics[:MaxTopics]
	}

	res := Result{
		Moments:    Rank(candidates, opts.MaxMoments),
		Topics:     topics,
		ChunkCount: len(chunks),
	}
	if n := len(sorted); n > 0 {
		res.Duration = sorted[n-1].End()
	}
	return res
}

// TopicMention is the first place a requested topic is spoken about.
type TopicMention struct {
	Topic   string
	Segment Segment
	Found   bool
}

// FindTopicMentions looks up the first segment mentioning each topic,
// case-insensitively. segments must be sorted by start time.
func FindTopicMentions(segments []Segment, topics []string) []TopicMention {
	mentions := make([]TopicMention, 0, len(topics))
	for _, topic := range MergeTopics(topics) {
		needle := strings.ToLower(topic)
		m := TopicMention{Topic: topic}
		for _, seg := range segments {
			if strings.Contains(strings.ToLower(seg.Text), needle) {
				m.Segment = seg
				m.Found = true
				break
			}
		}
		mentions = append(mentions, m)
	}
	return mentions
}
