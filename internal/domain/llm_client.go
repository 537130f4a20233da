package domain

import "context"

// LLMClient defines the capability to send prompts to a text-generation
// service and receive textual responses. The generation call itself is a
// black box as far as retrieval is concerned.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (*LLMResponse, error)
	Version() string
}

// LLMResponse carries the generated text and whether generation finished.
type LLMResponse struct {
	Text string
	Done bool
}
