package domain

import (
	"context"

	"github.com/google/uuid"
)

// VectorIndex is the query-time contract the retrieval core requires from the
// passage index. The index combines a dense (semantic) signal and a sparse
// (lexical) signal into one fused ranking; the core treats that fusion as a
// black box and only consumes the resulting scalar per hit.
type VectorIndex interface {
	// Search returns hits for one query variant, sorted descending by the
	// fused score. limit must be >= 1.
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)

	// GetByID performs a point lookup. Returns ErrPassageNotFound when the
	// id is unknown. Not on the hot query path; used by evaluation
	// collaborators that share the index client.
	GetByID(ctx context.Context, id uuid.UUID) (*Passage, error)
}
