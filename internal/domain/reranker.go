package domain

import "context"

// RerankCandidate represents a passage candidate for cross-encoder reranking.
type RerankCandidate struct {
	// ID is the unique identifier for the passage (used to map back results).
	ID string
	// Content is the text content to be scored against the query.
	Content string
	// Score is the initial retrieval score (for debugging/logging).
	Score float32
}

// RerankResult represents a reranked passage with cross-encoder relevance score.
type RerankResult struct {
	// ID matches the candidate ID for result mapping.
	ID string
	// Score is the cross-encoder relevance score (typically 0.0 to 1.0).
	Score float32
}

// Reranker defines the interface for pairwise (query, passage) relevance
// scoring with a cross-encoder model. Implementations call an external
// scoring service; the pipeline treats them as a pluggable scoring oracle.
// If an error occurs, callers fall back to the original fused scores.
type Reranker interface {
	// Rerank scores candidates against the query. Returns results sorted by
	// score descending.
	Rerank(ctx context.Context, query string, candidates []RerankCandidate) ([]RerankResult, error)

	// ModelName returns the model identifier for logging/debugging.
	ModelName() string
}
