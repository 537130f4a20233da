package retrieval

import (
	"sort"

	"docqa-orchestrator/internal/domain"

	"github.com/google/uuid"
)

// FuseHits merges per-variant hit lists into one deduplicated candidate list.
//
// Hits are concatenated in variant submission order, preserving each
// variant's internal rank order. The first occurrence of a passage id wins:
// later occurrences are discarded entirely rather than merged or averaged,
// because fused scores from different search calls are not guaranteed to be
// on comparable scales. Survivors are then stably sorted descending by their
// first-seen score, so ties keep insertion order and identical inputs always
// produce identical output.
//
// Empty input (no variants searched, or nothing returned) yields an empty
// list, not an error.
func FuseHits(variantHits [][]domain.SearchHit) []CandidateResult {
	seen := make(map[uuid.UUID]bool)
	var candidates []CandidateResult

	for _, hits := range variantHits {
		for _, hit := range hits {
			if seen[hit.PassageID] {
				continue
			}
			seen[hit.PassageID] = true
			candidates = append(candidates, CandidateResult{
				PassageID:     hit.PassageID,
				Content:       hit.Content,
				Document:      hit.Document,
				Section:       hit.Section,
				OriginalScore: hit.Score,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].OriginalScore > candidates[j].OriginalScore
	})

	return candidates
}
