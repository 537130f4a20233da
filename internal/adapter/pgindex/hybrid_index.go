package pgindex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docqa-orchestrator/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// rrfK is the reciprocal-rank-fusion constant. 60 is the standard value.
const rrfK = 60

// HybridIndex implements domain.VectorIndex on PostgreSQL. One query fuses a
// dense pgvector nearest-neighbor ranking with a lexical full-text ranking
// using reciprocal rank fusion, returning a single fused score per passage.
// The retrieval core consumes that score as an opaque scalar.
type HybridIndex struct {
	pool    *pgxpool.Pool
	encoder domain.VectorEncoder
	logger  *slog.Logger
}

// NewHybridIndex creates an index client over the given pool. The encoder
// supplies dense query vectors; the lexical signal is computed in Postgres
// from the raw query text.
func NewHybridIndex(pool *pgxpool.Pool, encoder domain.VectorEncoder, logger *slog.Logger) *HybridIndex {
	return &HybridIndex{pool: pool, encoder: encoder, logger: logger}
}

var _ domain.VectorIndex = (*HybridIndex)(nil)

// Each branch over-fetches 2x the requested limit so passages strong in only
// one signal still reach the fused ranking.
const searchQuery = `
WITH dense AS (
	SELECT id, row_number() OVER (ORDER BY embedding <=> $1) AS rank
	FROM passages
	ORDER BY embedding <=> $1
	LIMIT $2
),
lexical AS (
	SELECT p.id, row_number() OVER (ORDER BY ts_rank_cd(p.tsv, q) DESC) AS rank
	FROM passages p, websearch_to_tsquery('english', $3) q
	WHERE p.tsv @@ q
	ORDER BY ts_rank_cd(p.tsv, q) DESC
	LIMIT $2
)
SELECT p.id, p.content, p.document, p.section,
	(COALESCE(1.0 / ($4 + dense.rank), 0) + COALESCE(1.0 / ($4 + lexical.rank), 0))::float8 AS score
FROM dense
FULL OUTER JOIN lexical USING (id)
JOIN passages p USING (id)
ORDER BY score DESC, p.id
LIMIT $5
`

// Search embeds the query, then runs the fused dense+lexical ranking.
// Hits come back sorted descending by the fused score.
func (x *HybridIndex) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	if limit < 1 {
		return nil, fmt.Errorf("search limit must be >= 1, got %d", limit)
	}

	start := time.Now()
	embeddings, err := x.encoder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	rows, err := x.pool.Query(ctx, searchQuery,
		pgvector.NewVector(embeddings[0]), limit*2, query, rrfK, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search passages: %w", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var h domain.SearchHit
		var score float64
		if err := rows.Scan(&h.PassageID, &h.Content, &h.Document, &h.Section, &score); err != nil {
			return nil, fmt.Errorf("failed to scan hit: %w", err)
		}
		h.Score = float32(score)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	x.logger.Debug("hybrid_search_completed",
		slog.Int("hit_count", len(hits)),
		slog.Int("limit", limit),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return hits, nil
}

// GetByID performs a point lookup of one passage.
func (x *HybridIndex) GetByID(ctx context.Context, id uuid.UUID) (*domain.Passage, error) {
	query := `
		SELECT id, content, document, section
		FROM passages
		WHERE id = $1
	`
	var p domain.Passage
	err := x.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Content, &p.Document, &p.Section)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("passage %s: %w", id, domain.ErrPassageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get passage: %w", err)
	}
	return &p, nil
}
