package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"docqa-orchestrator/internal/adapter/httpapi"
	"docqa-orchestrator/internal/adapter/llmgw"
	"docqa-orchestrator/internal/adapter/pgindex"
	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/infra"
	"docqa-orchestrator/internal/infra/config"
	"docqa-orchestrator/internal/infra/httpclient"
	"docqa-orchestrator/internal/infra/logger"
	"docqa-orchestrator/internal/usecase"
	"docqa-orchestrator/internal/usecase/retrieval"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New()
	slog.SetDefault(log)

	// 3. Initialize DB
	dbPool, err := infra.NewPostgresDB(context.Background(), cfg.DB.DSN(), infra.PoolConfig{
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		log.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Initialize Adapters
	gatewayClient := httpclient.NewPooledClient(cfg.Gateway.Timeout)
	embedder := llmgw.NewEmbedder(cfg.Gateway.URL, cfg.Gateway.EmbeddingModel, cfg.Gateway.Timeout, log, gatewayClient)
	generator := llmgw.NewGenerator(cfg.Gateway.URL, cfg.Gateway.GenerationModel, cfg.Gateway.Timeout, cfg.Gateway.GenerationRPS, log, gatewayClient)
	index := pgindex.NewHybridIndex(dbPool, embedder, log)

	var reranker domain.Reranker
	if cfg.Reranker.Enabled {
		reranker = llmgw.NewRerankerClient(cfg.Reranker.URL, cfg.Reranker.Model, cfg.Reranker.Timeout, log,
			httpclient.NewPooledClient(cfg.Reranker.Timeout))
	}

	// 5. Initialize Usecases
	expander := retrieval.NewLLMExpander(generator, cfg.Retrieval.ExpansionCacheSize, log)
	orchestrator, err := retrieval.NewOrchestrator(index, expander, reranker, retrieval.Config{
		ExpansionFanout:       cfg.Retrieval.ExpansionFanout,
		SearchLimit:           cfg.Retrieval.SearchLimit,
		TopK:                  cfg.Retrieval.TopK,
		PreviewChars:          cfg.Retrieval.PreviewChars,
		MaxConcurrentSearches: cfg.Retrieval.MaxConcurrentSearches,
		RerankEnabled:         cfg.Reranker.Enabled,
		SearchTimeout:         cfg.Retrieval.SearchTimeout,
		RerankTimeout:         cfg.Reranker.Timeout,
	}, log)
	if err != nil {
		log.Error("failed to build retrieval pipeline", "error", err)
		os.Exit(1)
	}

	promptBuilder := usecase.NewContextPromptBuilder()
	answerUsecase := usecase.NewAnswerUsecase(
		orchestrator,
		promptBuilder,
		generator,
		cfg.Retrieval.AnswerMaxTokens,
		log,
	)

	// 6. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// 7. Register Handlers
	handler := httpapi.NewHandler(orchestrator, answerUsecase, log)
	handler.Register(e)

	// 8. Health Checks
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		if err := dbPool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "db down", "error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})

	// 9. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
