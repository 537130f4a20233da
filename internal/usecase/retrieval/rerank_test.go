package retrieval_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func candidate(id uuid.UUID, content string, originalScore float32) retrieval.CandidateResult {
	return retrieval.CandidateResult{
		PassageID:     id,
		Content:       content,
		Document:      "doc",
		Section:       "1",
		OriginalScore: originalScore,
	}
}

func TestRerankCandidates_ReordersByCrossEncoderScore(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	// Fusion produced [a:0.9, b:0.7, c:0.5]; the reranker scores them
	// [0.4, 0.95, 0.3], so the final order is [b, a, c] with original
	// scores preserved.
	candidates := []retrieval.CandidateResult{
		candidate(a, "passage a", 0.9),
		candidate(b, "passage b", 0.7),
		candidate(c, "passage c", 0.5),
	}

	reranker := new(MockReranker)
	reranker.On("Rerank", mock.Anything, "What are the advantages of using RAG?", mock.Anything).
		Return([]domain.RerankResult{
			{ID: b.String(), Score: 0.95},
			{ID: a.String(), Score: 0.4},
			{ID: c.String(), Score: 0.3},
		}, nil)

	result := retrieval.RerankCandidates(context.Background(), reranker,
		"What are the advantages of using RAG?", candidates, 5, time.Second, discardLogger())

	require.Len(t, result, 3)
	assert.Equal(t, b, result[0].PassageID)
	assert.Equal(t, a, result[1].PassageID)
	assert.Equal(t, c, result[2].PassageID)

	assert.Equal(t, float32(0.95), result[0].RelevanceScore())
	assert.Equal(t, float32(0.4), result[1].RelevanceScore())
	assert.Equal(t, float32(0.3), result[2].RelevanceScore())

	// Original scores are never mutated by reranking.
	assert.Equal(t, float32(0.7), result[0].OriginalScore)
	assert.Equal(t, float32(0.9), result[1].OriginalScore)
	assert.Equal(t, float32(0.5), result[2].OriginalScore)
}

func TestRerankCandidates_TruncatesToTopK(t *testing.T) {
	var candidates []retrieval.CandidateResult
	var results []domain.RerankResult
	for i := 0; i < 8; i++ {
		id := uuid.New()
		candidates = append(candidates, candidate(id, "p", float32(8-i)/10))
		results = append(results, domain.RerankResult{ID: id.String(), Score: float32(i) / 10})
	}

	reranker := new(MockReranker)
	reranker.On("Rerank", mock.Anything, mock.Anything, mock.Anything).Return(results, nil)

	result := retrieval.RerankCandidates(context.Background(), reranker, "q", candidates, 3, time.Second, discardLogger())
	assert.Len(t, result, 3)
}

func TestRerankCandidates_BackendFailureFallsBackToFusedOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	candidates := []retrieval.CandidateResult{
		candidate(a, "passage a", 0.9),
		candidate(b, "passage b", 0.7),
		candidate(c, "passage c", 0.5),
	}

	reranker := new(MockReranker)
	reranker.On("Rerank", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("reranker unreachable"))

	result := retrieval.RerankCandidates(context.Background(), reranker, "q", candidates, 2, time.Second, discardLogger())

	require.Len(t, result, 2)
	assert.Equal(t, a, result[0].PassageID)
	assert.Equal(t, b, result[1].PassageID)
	// Rerank score unset: relevance mirrors the original score.
	assert.False(t, result[0].Reranked)
	assert.Equal(t, result[0].OriginalScore, result[0].RelevanceScore())
}

func TestRerankCandidates_FailureMatchesDisabledReranking(t *testing.T) {
	// "Rerank always fails" and "reranking disabled" must produce identical
	// bundles for the same fused candidates.
	a, b := uuid.New(), uuid.New()
	candidates := []retrieval.CandidateResult{
		candidate(a, "passage a", 0.8),
		candidate(b, "passage b", 0.6),
	}

	reranker := new(MockReranker)
	reranker.On("Rerank", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("boom"))

	failed := retrieval.RerankCandidates(context.Background(), reranker, "q", candidates, 5, time.Second, discardLogger())

	failedBundle := retrieval.AssembleBundle("q", failed, 200)
	disabledBundle := retrieval.AssembleBundle("q", candidates, 200)
	assert.Equal(t, disabledBundle, failedBundle)
}

func TestRerankCandidates_EmptyInputSkipsBackend(t *testing.T) {
	reranker := new(MockReranker)

	result := retrieval.RerankCandidates(context.Background(), reranker, "q", nil, 5, time.Second, discardLogger())

	assert.Empty(t, result)
	reranker.AssertNotCalled(t, "Rerank", mock.Anything, mock.Anything, mock.Anything)
}
