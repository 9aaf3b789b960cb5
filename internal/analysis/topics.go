package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// MaxTopics bounds the number of topics returned for a chunk.
const MaxTopics = 10

// Topic pass weights.
const (
	repeatedPhraseWeight = 2
	introPhraseWeight    = 3
	nounPhraseWeight     = 1

	minRepeatedPhraseLen = 6
	minIntroPhraseLen    = 4
	minNounPhraseLen     = 6
)

// TopicDetector extracts topic phrases from a chunk.
type TopicDetector interface {
	DetectTopics(chunk Chunk) []string
}

var (
	nonWordRe  = regexp.MustCompile(`[^\w\s]`)
	sentenceRe = regexp.MustCompile(`[.!?]+`)

	introPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:talk|talking|talked|discuss|discussing|discussed)\s+about\s+([^,;:]+)`),
		regexp.MustCompile(`(?i)\b(?:main|key|primary)\s+(?:topic|subject|point|focus)\s+(?:is|was|being|here is)\s+([^,;:]+)`),
		regexp.MustCompile(`(?i)\b(?:related|relating|regarding)\s+to\s+([^,;:]+)`),
	}

	nounPhrasePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`),
		regexp.MustCompile(`\b[A-Z][a-z]+\s+[a-z]+(?:ing|tion|ment|ness|ity)\b`),
		regexp.MustCompile(`\b(?:[Tt]he|[Oo]ur|[Yy]our|[Tt]heir)\s+[a-z]+\s+[a-z]+\b`),
	}
)

// HeuristicTopicDetector scores phrases with three independent passes:
// repeated word windows, introductory phrases and noun-phrase shapes.
type HeuristicTopicDetector struct{}

// DetectTopics returns up to MaxTopics phrases, highest score first.
func (HeuristicTopicDetector) DetectTopics(chunk Chunk) []string {
	text := chunk.Text()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	scores := newPhraseScores()
	scoreRepeatedPhrases(text, scores)
	scoreIntroPhrases(text, scores)
	scoreNounPhrases(text, scores)

	return scores.top(MaxTopics)
}

func scoreRepeatedPhrases(text string, scores *phraseScores) {
	normalized := nonWordRe.ReplaceAllString(strings.ToLower(text), "")

	var words []string
	for _, w := range strings.Fields(normalized) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}

	for _, size := range []int{2, 3} {
		counts := make(map[string]int)
		var order []string
		for i := 0; i+size <= len(words); i++ {
			phrase := strings.Join(words[i:i+size], " ")
			if counts[phrase] == 0 {
				order = append(order, phrase)
			}
			counts[phrase]++
		}
		for _, phrase := range order {
			if counts[phrase] > 1 && len(phrase) >= minRepeatedPhraseLen {
				scores.add(phrase, repeatedPhraseWeight)
			}
		}
	}
}

func scoreIntroPhrases(text string, scores *phraseScores) {
	for _, sentence := range sentenceRe.Split(text, -1) {
		for _, re := range introPatterns {
			m := re.FindStringSubmatch(sentence)
			if m == nil {
				continue
			}
			phrase := strings.TrimSpace(m[1])
			if len(phrase) >= minIntroPhraseLen {
				scores.add(phrase, introPhraseWeight)
			}
		}
	}
}

func scoreNounPhrases(text string, scores *phraseScores) {
	for _, re := range nounPhrasePatterns {
		for _, match := range re.FindAllString(text, -1) {
			if len(match) >= minNounPhraseLen {
				scores.add(match, nounPhraseWeight)
			}
		}
	}
}

// phraseScores accumulates weights per phrase and remembers first-seen order.
type phraseScores struct {
	order []string
	score map[string]int
}

func newPhraseScores() *phraseScores {
	return &phraseScores{score: make(map[string]int)}
}

func (p *phraseScores) add(phrase string, weight int) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return
	}
	if _, seen := p.score[phrase]; !seen {
		p.order = append(p.order, phrase)
	}
	p.score[phrase] += weight
}

func (p *phraseScores) top(n int) []string {
	ranked := make([]string, len(p.order))
	copy(ranked, p.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return p.score[ranked[i]] > p.score[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MergeTopics appends topics from later lists that are not already present,
// comparing trimmed strings exactly.
func MergeTopics(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, list := range lists {
		for _, t := range list {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			merged = append(merged, t)
		}
	}
	return merged
}
