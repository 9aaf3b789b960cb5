package analysis

import (
	"slices"
	"sort"
)

// DefaultMaxChunkDuration is the chunk window in seconds used when none is given.
const DefaultMaxChunkDuration = 300.0

// SortSegments returns a copy of segments ordered by start time.
// Segments with equal start times keep their relative order.
func SortSegments(segments []Segment) []Segment {
	sorted := slices.Clone(segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})
	return sorted
}

// ChunkSegments groups segments greedily into windows of at most maxDuration
// seconds, measured from the first segment of each chunk.
//
// The input must already be sorted by start time; ChunkSegments never
// reorders. A non-positive maxDuration selects DefaultMaxChunkDuration.
func ChunkSegments(segments []Segment, maxDuration float64) []Chunk {
	if len(segments) == 0 {
		return nil
	}
	if maxDuration <= 0 {
		maxDuration = DefaultMaxChunkDuration
	}

	var chunks []Chunk
	current := []Segment{segments[0]}
	ref := segments[0].StartTime

	for _, seg := range segments[1:] {
		if seg.StartTime-ref <= maxDuration {
			current = append(current, seg)
			continue
		}
		chunks = append(chunks, Chunk{Segments: current})
		current = []Segment{seg}
		ref = seg.StartTime
	}
	return append(chunks, Chunk{Segments: current})
}
