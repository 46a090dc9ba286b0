package triage

import (
	"sort"

	"github.com/GriffinAtlas/clawtriage/internal/cache"
	"github.com/GriffinAtlas/clawtriage/internal/similarity"
	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

// maxSimilarResults caps how many near-duplicates are surfaced per PR
const maxSimilarResults = 5

// FindSimilarPRs returns cached entries whose similarity to the target
// vector meets the threshold, excluding the target itself and entries that
// have no embedding yet. Results are sorted by score descending, capped at
// five, with scores rounded to 3 decimals.
func FindSimilarPRs(target []float32, targetNumber int, entries []cache.Entry, threshold float64) []models.SimilarPR {
	var results []models.SimilarPR
	for _, e := range entries {
		if e.Number == targetNumber || len(e.Embedding) == 0 {
			continue
		}
		score := similarity.Cosine(target, e.Embedding)
		if score >= threshold {
			results = append(results, models.SimilarPR{
				Number: e.Number,
				Score:  round3(score),
				Title:  e.Title,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxSimilarResults {
		results = results[:maxSimilarResults]
	}
	return results
}
