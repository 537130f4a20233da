package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docqa-orchestrator/internal/domain"

	"golang.org/x/sync/errgroup"
)

// searchVariants fans out one index search per variant and joins on all of
// them. Results land in an order-indexed slot array so that fusion's
// first-seen tie-break depends only on variant submission order, never on
// goroutine completion order.
//
// A failed variant contributes a nil slot and is logged; the call as a whole
// fails only when every variant's search failed, in which case the error
// wraps domain.ErrRetrievalUnavailable.
func searchVariants(
	ctx context.Context,
	index domain.VectorIndex,
	variants []string,
	cfg Config,
	logger *slog.Logger,
) ([][]domain.SearchHit, error) {
	slots := make([][]domain.SearchHit, len(variants))
	slotErrs := make([]error, len(variants))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrentSearches)

	for i, variant := range variants {
		g.Go(func() error {
			searchCtx, cancel := context.WithTimeout(gctx, cfg.SearchTimeout)
			defer cancel()

			hits, err := index.Search(searchCtx, variant, cfg.SearchLimit)
			if err != nil {
				slotErrs[i] = fmt.Errorf("variant %q: %w", variant, err)
				logger.Warn("variant_search_failed",
					slog.String("variant", variant),
					slog.String("error", err.Error()))
				return nil
			}
			slots[i] = hits
			return nil
		})
	}
	// Slot goroutines never return errors; Wait is the join point.
	_ = g.Wait()

	failed := 0
	for _, err := range slotErrs {
		if err != nil {
			failed++
		}
	}
	if failed == len(variants) {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, errors.Join(slotErrs...))
	}

	logger.Info("variant_search_completed",
		slog.Int("variant_count", len(variants)),
		slog.Int("failed_count", failed),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return slots, nil
}
