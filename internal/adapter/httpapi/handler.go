package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Handler exposes the retrieval core over REST. It is deliberately thin: the
// core is transport-agnostic, so everything here is binding and error
// mapping.
type Handler struct {
	retriever usecase.ContextRetriever
	answer    usecase.AnswerUsecase
	logger    *slog.Logger
}

func NewHandler(retriever usecase.ContextRetriever, answer usecase.AnswerUsecase, logger *slog.Logger) *Handler {
	return &Handler{
		retriever: retriever,
		answer:    answer,
		logger:    logger,
	}
}

// Register attaches the query routes to the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/v1/query/retrieve", h.Retrieve)
	e.POST("/v1/query/answer", h.Answer)
}

// RetrieveRequest is the payload for the retrieve endpoint.
type RetrieveRequest struct {
	Query        string `json:"query"`
	UseExpansion bool   `json:"use_expansion"`
}

// Retrieve runs the retrieval pipeline and returns the context bundle.
// (POST /v1/query/retrieve)
func (h *Handler) Retrieve(ctx echo.Context) error {
	var req RetrieveRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	bundle, err := h.retriever.Retrieve(ctx.Request().Context(), req.Query, req.UseExpansion)
	if err != nil {
		return h.mapError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, bundle)
}

// AnswerRequest is the payload for the answer endpoint.
type AnswerRequest struct {
	Query        string `json:"query"`
	UseExpansion bool   `json:"use_expansion"`
	MaxTokens    int    `json:"max_tokens,omitempty"`
}

// Answer runs retrieval plus generation and returns the grounded answer.
// (POST /v1/query/answer)
func (h *Handler) Answer(ctx echo.Context) error {
	var req AnswerRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	output, err := h.answer.Execute(ctx.Request().Context(), usecase.AnswerInput{
		Query:        req.Query,
		UseExpansion: req.UseExpansion,
		MaxTokens:    req.MaxTokens,
	})
	if err != nil {
		return h.mapError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, output)
}

func (h *Handler) mapError(ctx echo.Context, err error) error {
	if errors.Is(err, domain.ErrRetrievalUnavailable) {
		// No context could be gathered at all; tell the caller plainly
		// rather than returning a generic failure.
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "cannot answer right now",
		})
	}
	h.logger.Error("request_failed", slog.String("error", err.Error()))
	return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
