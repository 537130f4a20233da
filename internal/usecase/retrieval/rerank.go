package retrieval

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"docqa-orchestrator/internal/domain"

	"github.com/google/uuid"
)

// RerankCandidates recomputes relevance for each candidate against the
// original user query (never an expanded variant) and keeps the best topK.
//
// If the scoring backend fails, reranking is skipped wholesale: the input
// candidates come back in fused-score order, truncated to topK, with rerank
// scores unset so relevance falls back to the original score. The request
// never fails here.
func RerankCandidates(
	ctx context.Context,
	reranker domain.Reranker,
	originalQuery string,
	candidates []CandidateResult,
	topK int,
	timeout time.Duration,
	logger *slog.Logger,
) []CandidateResult {
	if len(candidates) == 0 {
		return candidates
	}

	rerankInput := make([]domain.RerankCandidate, len(candidates))
	for i, c := range candidates {
		rerankInput[i] = domain.RerankCandidate{
			ID:      c.PassageID.String(),
			Content: c.Content,
			Score:   c.OriginalScore,
		}
	}

	start := time.Now()
	rerankCtx, cancel := context.WithTimeout(ctx, timeout)
	results, err := reranker.Rerank(rerankCtx, originalQuery, rerankInput)
	cancel()

	if err != nil {
		logger.Warn("reranking_failed_using_original_scores",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return truncate(candidates, topK)
	}

	scores := make(map[uuid.UUID]float32, len(results))
	for _, r := range results {
		id, perr := uuid.Parse(r.ID)
		if perr != nil {
			continue
		}
		scores[id] = r.Score
	}

	reranked := make([]CandidateResult, len(candidates))
	copy(reranked, candidates)
	for i := range reranked {
		if score, ok := scores[reranked[i].PassageID]; ok {
			reranked[i].RerankScore = score
			reranked[i].Reranked = true
		}
	}

	// Stable sort: ties keep the pre-rerank (fused) order.
	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].RelevanceScore() > reranked[j].RelevanceScore()
	})

	logger.Info("reranking_completed",
		slog.Int("candidate_count", len(candidates)),
		slog.Int("scored_count", len(scores)),
		slog.String("model", reranker.ModelName()),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return truncate(reranked, topK)
}

func truncate(candidates []CandidateResult, topK int) []CandidateResult {
	if len(candidates) <= topK {
		return candidates
	}
	return candidates[:topK]
}
