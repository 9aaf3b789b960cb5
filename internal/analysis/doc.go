// Package analysis finds the noteworthy parts of a meeting transcript.
//
// Everything here is a rule-and-regex heuristic. No language model is involved,
// so the detected topics and moments are ranked suggestions rather than exact
// extractions.
//
// # Pipeline
//
// Segments are sorted by start time and grouped into bounded-duration chunks.
// Each chunk is passed through a TopicDetector, an ImportanceScorer and the
// conversation detector. The resulting candidates are joined with the
// structural start and end segments and handed to Rank, which orders them by
// importance, drops near-duplicate timestamps and returns the survivors in
// chronological order:
//
//	ex := analysis.NewExtractor()
//	res := ex.Extract(segments, analysis.Options{MaxMoments: 5})
//	for _, m := range res.Moments {
//	    fmt.Println(m.Timestamp, m.Description)
//	}
//
// All functions in this package are pure and safe for concurrent use.
package analysis
