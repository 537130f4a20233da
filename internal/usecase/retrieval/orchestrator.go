package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"docqa-orchestrator/internal/domain"

	"github.com/google/uuid"
)

// Orchestrator sequences the retrieval pipeline:
//
//	EXPANDING -> SEARCHING -> FUSING -> RERANKING -> ASSEMBLING
//
// and owns the degradation policy: expansion failures fall back to
// single-query mode, per-variant search failures degrade by omission,
// rerank failures fall back to fused-score order. Only total search failure
// surfaces to the caller, as domain.ErrRetrievalUnavailable.
//
// The index, expander and reranker handles are long-lived and shared
// read-only across concurrent requests; all per-request state is local.
type Orchestrator struct {
	index    domain.VectorIndex
	expander QueryExpander
	reranker domain.Reranker
	cfg      Config
	logger   *slog.Logger
}

// NewOrchestrator wires the pipeline. reranker may be nil when reranking is
// disabled in cfg.
func NewOrchestrator(
	index domain.VectorIndex,
	expander QueryExpander,
	reranker domain.Reranker,
	cfg Config,
	logger *slog.Logger,
) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retrieval config: %w", err)
	}
	if cfg.RerankEnabled && reranker == nil {
		return nil, fmt.Errorf("reranking enabled but no reranker provided")
	}
	return &Orchestrator{
		index:    index,
		expander: expander,
		reranker: reranker,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Retrieve runs the full pipeline for one user query and returns the
// context bundle for generation.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, useExpansion bool) (*ContextBundle, error) {
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}

	retrievalID := uuid.New().String()
	logger := o.logger.With(slog.String("retrieval_id", retrievalID))

	// EXPANDING: the searched set is exactly the expander's output; the
	// expander guarantees at least one variant (the original on failure).
	variants := []string{query}
	if useExpansion && o.expander != nil {
		variants = o.expander.Expand(ctx, query, o.cfg.ExpansionFanout)
	}

	// SEARCHING: parallel fan-out, joined before fusion.
	variantHits, err := searchVariants(ctx, o.index, variants, o.cfg, logger)
	if err != nil {
		return nil, err
	}

	// FUSING
	candidates := FuseHits(variantHits)
	if len(candidates) == 0 {
		logger.Info("retrieval_empty", slog.String("query", query))
		return AssembleBundle(query, nil, o.cfg.PreviewChars), nil
	}

	// RERANKING: always against the original query, never a variant.
	if o.cfg.RerankEnabled {
		candidates = RerankCandidates(ctx, o.reranker, query, candidates, o.cfg.TopK, o.cfg.RerankTimeout, logger)
	} else {
		candidates = truncate(candidates, o.cfg.TopK)
	}

	// ASSEMBLING
	bundle := AssembleBundle(query, candidates, o.cfg.PreviewChars)

	logger.Info("retrieval_completed",
		slog.String("query", query),
		slog.Int("variant_count", len(variants)),
		slog.Int("entry_count", len(bundle.Entries)))

	return bundle, nil
}
