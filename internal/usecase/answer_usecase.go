package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase/retrieval"
)

// ContextRetriever is the retrieval pipeline as seen by the answer flow.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, useExpansion bool) (*retrieval.ContextBundle, error)
}

// AnswerInput encapsulates the parameters that drive one answer request.
type AnswerInput struct {
	Query        string
	UseExpansion bool
	MaxTokens    int
}

// AnswerOutput is the response returned to API clients: the generated answer
// plus the supporting passages that were fed to the model.
type AnswerOutput struct {
	QueryUsed            string                   `json:"query_used"`
	ActualOutput         string                   `json:"actual_output"`
	RetrievalContextUsed []retrieval.ContextEntry `json:"retrieval_context_used"`
	LLMModel             string                   `json:"llm_model"`
}

// AnswerUsecase defines the contract for generating grounded answers.
type AnswerUsecase interface {
	Execute(ctx context.Context, input AnswerInput) (*AnswerOutput, error)
}

type answerUsecase struct {
	retriever     ContextRetriever
	promptBuilder PromptBuilder
	llmClient     domain.LLMClient
	maxTokens     int
	logger        *slog.Logger
}

// NewAnswerUsecase wires retrieval, prompt building and generation.
// defaultMaxTokens is used when the input does not specify a budget.
func NewAnswerUsecase(
	retriever ContextRetriever,
	promptBuilder PromptBuilder,
	llmClient domain.LLMClient,
	defaultMaxTokens int,
	logger *slog.Logger,
) AnswerUsecase {
	return &answerUsecase{
		retriever:     retriever,
		promptBuilder: promptBuilder,
		llmClient:     llmClient,
		maxTokens:     defaultMaxTokens,
		logger:        logger,
	}
}

func (u *answerUsecase) Execute(ctx context.Context, input AnswerInput) (*AnswerOutput, error) {
	if input.Query == "" {
		return nil, fmt.Errorf("query is empty")
	}

	bundle, err := u.retriever.Retrieve(ctx, input.Query, input.UseExpansion)
	if err != nil {
		// domain.ErrRetrievalUnavailable passes through so callers can
		// report "cannot answer right now" instead of a generic failure.
		return nil, err
	}

	maxTokens := input.MaxTokens
	if maxTokens <= 0 {
		maxTokens = u.maxTokens
	}

	// Generation always sees the original question, never a variant.
	prompt := u.promptBuilder.Build(input.Query, bundle.Entries)
	resp, err := u.llmClient.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	u.logger.Info("answer_generated",
		slog.String("query", input.Query),
		slog.Int("context_count", len(bundle.Entries)),
		slog.Int("answer_chars", len(resp.Text)),
		slog.String("model", u.llmClient.Version()))

	return &AnswerOutput{
		QueryUsed:            input.Query,
		ActualOutput:         resp.Text,
		RetrievalContextUsed: bundle.Entries,
		LLMModel:             u.llmClient.Version(),
	}, nil
}
