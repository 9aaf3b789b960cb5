package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func chunkOf(texts ...string) Chunk {
	var segs []Segment
	for i, txt := range texts {
		segs = append(segs, Segment{Speaker: "A", Text: txt, StartTime: float64(i * 10)})
	}
	return Chunk{Segments: segs}
}

func TestDetectTopics_SamePhraseFromTwoPassesAppearsOnce(t *testing.T) {
	chunk := chunkOf("We are talking about budget review.", "The budget review is late.")

	topics := HeuristicTopicDetector{}.DetectTopics(chunk)

	assert.Equal(t, []string{"budget review", "The budget review"}, topics)
	count := 0
	for _, topic := range topics {
		if topic == "budget review" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestDetectTopics_IntroPattern(t *testing.T) {
	chunk := chunkOf("So the main topic is quarterly planning, and then lunch.")

	topics := HeuristicTopicDetector{}.DetectTopics(chunk)

	assert.Contains(t, topics, "quarterly planning")
}

func TestDetectTopics_RelatedTo(t *testing.T) {
	chunk := chunkOf("I have a question related to the hiring plan")

	topics := HeuristicTopicDetector{}.DetectTopics(chunk)

	assert.Contains(t, topics, "the hiring plan")
}

func TestDetectTopics_CappedAtTen(t *testing.T) {
	chunk := chunkOf("Alpha Bravo Charlie Delta Echo Foxtrot Golf Hotel India Juliet Kilo Lima " +
		"Mike November Oscar Papa Quebec Romeo Sierra Tango Uniform Victor Whiskey Xray")

	topics := HeuristicTopicDetector{}.DetectTopics(chunk)

	assert.Len(t, topics, MaxTopics)
	assert.Equal(t, "Alpha Bravo", topics[0])
}

func TestDetectTopics_Empty(t *testing.T) {
	assert.Nil(t, HeuristicTopicDetector{}.DetectTopics(Chunk{}))
	assert.Nil(t, HeuristicTopicDetector{}.DetectTopics(chunkOf("   ")))
}

func TestDetectTopics_Idempotent(t *testing.T) {
	chunk := chunkOf(
		"Let's talk about the release schedule.",
		"The release schedule depends on Platform Engineering.",
		"Our deployment pipeline needs Release Management sign off.",
	)
	d := HeuristicTopicDetector{}

	assert.Equal(t, d.DetectTopics(chunk), d.DetectTopics(chunk))
}

func TestMergeTopics(t *testing.T) {
	merged := MergeTopics([]string{"budget", " roadmap "}, []string{"roadmap", "", "hiring"})
	assert.Equal(t, []string{"budget", "roadmap", "hiring"}, merged)
}
