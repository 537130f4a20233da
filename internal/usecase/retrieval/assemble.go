package retrieval

import (
	"fmt"
)

// AssembleBundle builds the final ContextBundle from the surviving
// candidates. Each entry carries a source label formed from the passage's
// document and section, and a text preview capped at previewChars with a
// trailing ellipsis only when truncation actually occurred.
func AssembleBundle(query string, candidates []CandidateResult, previewChars int) *ContextBundle {
	entries := make([]ContextEntry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, ContextEntry{
			ChunkID:        c.PassageID.String(),
			Content:        c.Content,
			SourceDocument: sourceLabel(c.Document, c.Section),
			RelevanceScore: c.RelevanceScore(),
			OriginalScore:  c.OriginalScore,
			TextPreview:    previewText(c.Content, previewChars),
		})
	}
	return &ContextBundle{Query: query, Entries: entries}
}

func sourceLabel(document, section string) string {
	return fmt.Sprintf("book: %s - chapter: %s", document, section)
}

// previewText cuts content to a character budget. Counted in runes so a
// multi-byte character is never split.
func previewText(content string, budget int) string {
	runes := []rune(content)
	if len(runes) <= budget {
		return content
	}
	return string(runes[:budget]) + "..."
}
