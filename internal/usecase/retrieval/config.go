package retrieval

import (
	"fmt"
	"time"
)

// Config holds the tunable parameters of the retrieval pipeline. Callers
// supply these explicitly; nothing here is hardcoded in the stages.
type Config struct {
	// ExpansionFanout is the number of alternative phrasings requested from
	// the query expander when expansion is enabled.
	ExpansionFanout int

	// SearchLimit is the number of hits fetched from the index per variant.
	SearchLimit int

	// TopK is the number of candidates retained after the ranking stage.
	TopK int

	// PreviewChars is the character budget for the text preview attached to
	// each bundle entry. Content longer than this is cut and marked with an
	// ellipsis.
	PreviewChars int

	// MaxConcurrentSearches bounds the per-variant search fan-out.
	MaxConcurrentSearches int

	// RerankEnabled controls whether cross-encoder reranking is applied.
	RerankEnabled bool

	// SearchTimeout bounds each per-variant index call.
	SearchTimeout time.Duration

	// RerankTimeout bounds the batched rerank call.
	RerankTimeout time.Duration
}

// DefaultConfig returns the reference pipeline parameters.
func DefaultConfig() Config {
	return Config{
		ExpansionFanout:       3,
		SearchLimit:           5,
		TopK:                  5,
		PreviewChars:          200,
		MaxConcurrentSearches: 4,
		RerankEnabled:         true,
		SearchTimeout:         10 * time.Second,
		RerankTimeout:         30 * time.Second,
	}
}

// Validate checks the configuration values are within acceptable ranges.
func (c Config) Validate() error {
	if c.ExpansionFanout < 1 {
		return fmt.Errorf("expansion fanout must be >= 1, got %d", c.ExpansionFanout)
	}
	if c.SearchLimit < 1 {
		return fmt.Errorf("search limit must be >= 1, got %d", c.SearchLimit)
	}
	if c.TopK < 1 {
		return fmt.Errorf("topK must be >= 1, got %d", c.TopK)
	}
	if c.PreviewChars < 1 {
		return fmt.Errorf("preview budget must be >= 1, got %d", c.PreviewChars)
	}
	if c.MaxConcurrentSearches < 1 {
		return fmt.Errorf("max concurrent searches must be >= 1, got %d", c.MaxConcurrentSearches)
	}
	if c.SearchTimeout <= 0 {
		return fmt.Errorf("search timeout must be positive, got %v", c.SearchTimeout)
	}
	if c.RerankEnabled && c.RerankTimeout <= 0 {
		return fmt.Errorf("rerank timeout must be positive, got %v", c.RerankTimeout)
	}
	return nil
}
