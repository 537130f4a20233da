package domain

import "github.com/google/uuid"

// Passage is a stored content unit owned by the vector index. Passages are
// immutable once written; how they get written is the ingestion side's concern.
type Passage struct {
	ID       uuid.UUID
	Content  string
	Document string
	Section  string
}

// SearchHit is the result of one index query for one query variant. The score
// is the index's fused (dense+lexical) relevance scalar: higher is more
// relevant within that single search call, but scores are not comparable
// across calls or across index implementations.
type SearchHit struct {
	PassageID uuid.UUID
	Content   string
	Document  string
	Section   string
	Score     float32
}
