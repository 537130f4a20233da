package usecase

import (
	"fmt"
	"strings"

	"docqa-orchestrator/internal/usecase/retrieval"
)

// PromptBuilder composes the text sent to the generation service from the
// original query and the retrieved context bundle.
type PromptBuilder interface {
	Build(query string, entries []retrieval.ContextEntry) string
}

// ContextPromptBuilder renders a grounded-answer prompt: instructions, the
// labeled context passages, then the user query. The knowledge base is
// English, so instructions are kept in English regardless of query language.
type ContextPromptBuilder struct {
	additionalInstructions []string
}

// NewContextPromptBuilder creates a prompt builder with optional extra
// instructions appended after the standard ones.
func NewContextPromptBuilder(additionalInstructions ...string) *ContextPromptBuilder {
	return &ContextPromptBuilder{additionalInstructions: additionalInstructions}
}

// Build renders the full prompt.
func (b *ContextPromptBuilder) Build(query string, entries []retrieval.ContextEntry) string {
	var sb strings.Builder

	sb.WriteString("You are an expert assistant that answers questions based on technical documents.\n")
	sb.WriteString("- Use only the information provided in the context\n")
	sb.WriteString("- If the answer is not in the context, say you cannot answer with the available information\n")
	sb.WriteString("- Answer in the same language as the question\n")
	for _, instruction := range b.additionalInstructions {
		sb.WriteString("- ")
		sb.WriteString(instruction)
		sb.WriteString("\n")
	}

	sb.WriteString("\nContext:\n")
	if len(entries) == 0 {
		sb.WriteString("(no supporting passages were retrieved)\n")
	}
	for _, entry := range entries {
		fmt.Fprintf(&sb, "Document: %s\nContent: %s\n\n", entry.SourceDocument, entry.Content)
	}

	sb.WriteString("Question: ")
	sb.WriteString(query)
	sb.WriteString("\n\nPlease answer the question based only on the provided context.")

	return sb.String()
}
