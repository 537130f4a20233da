package domain

import "errors"

// Retrieval-path error taxonomy. Everything except ErrRetrievalUnavailable is
// recovered locally by the orchestrator and never reaches the caller.
var (
	// ErrRetrievalUnavailable means every variant's index search failed, so
	// no context could be gathered. This is the only core-level error a
	// caller must handle.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable: all variant searches failed")

	// ErrExpansionUnavailable means the expansion service was unreachable or
	// returned unusable output. Recovered by falling back to single-variant
	// mode.
	ErrExpansionUnavailable = errors.New("query expansion unavailable")

	// ErrRerankUnavailable means the reranker was unreachable or errored.
	// Recovered by keeping the fused-score ordering.
	ErrRerankUnavailable = errors.New("reranker unavailable")

	// ErrPassageNotFound is returned by VectorIndex.GetByID for unknown ids.
	ErrPassageNotFound = errors.New("passage not found")
)
