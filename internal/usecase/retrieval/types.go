package retrieval

import (
	"github.com/google/uuid"
)

// CandidateResult is a deduplicated search hit surviving the fusion stage.
// OriginalScore is fixed at dedup time and never mutated afterwards; the
// rerank stage sets RerankScore and Reranked when scoring succeeds.
type CandidateResult struct {
	PassageID     uuid.UUID
	Content       string
	Document      string
	Section       string
	OriginalScore float32
	RerankScore   float32
	Reranked      bool
}

// RelevanceScore is the score the bundle is ordered by: the cross-encoder
// score when reranking succeeded, the fused score otherwise.
func (c CandidateResult) RelevanceScore() float32 {
	if c.Reranked {
		return c.RerankScore
	}
	return c.OriginalScore
}

// ContextEntry is the per-passage shape handed to the generation collaborator
// and any UI/reporting collaborator. Field names are part of the contract.
type ContextEntry struct {
	ChunkID        string  `json:"chunk_id"`
	Content        string  `json:"content"`
	SourceDocument string  `json:"source_document"`
	RelevanceScore float32 `json:"relevance_score"`
	OriginalScore  float32 `json:"original_score"`
	TextPreview    string  `json:"text_preview"`
}

// ContextBundle is the pipeline's terminal output: the top-K entries ordered
// by non-increasing relevance score, plus the original query text for the
// generation step.
type ContextBundle struct {
	Query   string         `json:"query"`
	Entries []ContextEntry `json:"retrieval_context"`
}
