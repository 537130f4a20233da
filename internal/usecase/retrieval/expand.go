package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docqa-orchestrator/internal/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

// QueryExpander produces alternative phrasings of one user query to widen
// recall. Implementations must always return at least one variant: on any
// failure the result is exactly the original query, so expansion problems
// never propagate upward.
type QueryExpander interface {
	Expand(ctx context.Context, query string, count int) []string
}

const expansionPromptTemplate = `You are a helpful assistant that generates multiple search queries based on a single input query.

Perform query expansion. If there are multiple common ways of phrasing a user question or common synonyms for key words in the question, make sure to return multiple versions of the query with the different phrasings.

If there are acronyms or words you are not familiar with, do not try to rephrase them.

Return exactly %d different versions of the question, each on a new line.
Do not number them or add extra text, just the queries.

Question: %s`

const expansionMaxTokens = 200

// LLMExpander implements QueryExpander on top of a text-generation service,
// with an LRU cache so repeated queries skip the service call.
type LLMExpander struct {
	llm    domain.LLMClient
	cache  *lru.Cache[string, []string]
	logger *slog.Logger
}

// NewLLMExpander constructs an expander. cacheSize <= 0 disables caching.
func NewLLMExpander(llm domain.LLMClient, cacheSize int, logger *slog.Logger) *LLMExpander {
	var cache *lru.Cache[string, []string]
	if cacheSize > 0 {
		// lru.New only fails on a non-positive size, which is guarded above.
		cache, _ = lru.New[string, []string](cacheSize)
	}
	return &LLMExpander{llm: llm, cache: cache, logger: logger}
}

// Expand returns count alternative phrasings of query, or [query] when the
// generation service fails, times out, or yields no usable lines.
func (e *LLMExpander) Expand(ctx context.Context, query string, count int) []string {
	if count < 1 {
		count = 1
	}
	cacheKey := fmt.Sprintf("%d|%s", count, query)
	if e.cache != nil {
		if cached, ok := e.cache.Get(cacheKey); ok {
			e.logger.Debug("query_expansion_cache_hit", slog.String("query", query))
			return cached
		}
	}

	prompt := fmt.Sprintf(expansionPromptTemplate, count, query)
	resp, err := e.llm.Generate(ctx, prompt, expansionMaxTokens)
	if err != nil {
		e.logger.Warn("query_expansion_failed",
			slog.String("query", query),
			slog.String("error", fmt.Errorf("%w: %w", domain.ErrExpansionUnavailable, err).Error()))
		return []string{query}
	}

	variants := parseExpansionLines(resp.Text)
	if len(variants) == 0 {
		e.logger.Warn("query_expansion_empty",
			slog.String("query", query),
			slog.String("raw", truncateForLog(resp.Text, 200)))
		return []string{query}
	}

	e.logger.Info("query_expansion_completed",
		slog.String("original", query),
		slog.Int("variant_count", len(variants)),
		slog.Any("variants", variants))

	if e.cache != nil {
		e.cache.Add(cacheKey, variants)
	}
	return variants
}

// parseExpansionLines splits generated text into usable query variants:
// one per line, trimmed, with empty lines and "no answer" sentinels dropped.
func parseExpansionLines(text string) []string {
	var variants []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch strings.ToLower(trimmed) {
		case "none", "null":
			continue
		}
		variants = append(variants, trimmed)
	}
	return variants
}

func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
