package analysis

import (
	"math"
	"slices"
	"sort"
)

// DedupWindow is the proximity in seconds under which two candidates count
// as the same moment.
const DedupWindow = 30.0

// Rank orders candidates by importance, removes near-duplicates greedily,
// re-sorts the survivors chronologically and keeps the first maxCount.
//
// Truncation happens after the chronological sort, so the result holds the
// earliest surviving moments rather than the most important ones.
//
// Structural candidates bypass the proximity check. They are only skipped
// when a moment at exactly the same timestamp was already accepted, so the
// meeting start survives a strong segment a few seconds later.
func Rank(candidates []Candidate, maxCount int) []KeyMoment {
	if maxCount <= 0 || len(candidates) == 0 {
		return nil
	}

	byImportance := slices.Clone(candidates)
	sort.SliceStable(byImportance, func(i, j int) bool {
		return byImportance[i].Importance > byImportance[j].Importance
	})

	var accepted []Candidate
	for _, c := range byImportance {
		if isDuplicate(c, accepted) {
			continue
		}
		accepted = append(accepted, c)
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Timestamp < accepted[j].Timestamp
	})
	if len(accepted) > maxCount {
		accepted = accepted[:maxCount]
	}

	moments := make([]KeyMoment, 0, len(accepted))
	for _, c := range accepted {
		moments = append(moments, KeyMoment{
			Timestamp:   c.Timestamp,
			Speaker:     c.Speaker,
			Description: c.Description,
			Text:        c.Text,
			Type:        c.Type,
		})
	}
	return moments
}

func isDuplicate(c Candidate, accepted []Candidate) bool {
	for _, a := range accepted {
		if c.Type == TypeStructural {
			if a.Timestamp == c.Timestamp {
				return true
			}
			continue
		}
		if math.Abs(a.Timestamp-c.Timestamp) <= DedupWindow {
			return true
		}
	}
	return false
}
