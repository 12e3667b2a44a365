package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"pat/backend/features/chat"
	"pat/backend/internal/adapter/gemini"
	"pat/backend/internal/config"
	"pat/backend/internal/dialogue"
	"pat/backend/internal/middleware"
	"pat/backend/internal/retrieval"
)

type App struct {
	Handler http.Handler
	port    int
}

// New assembles the query path: Gemini adapters, retrieval service,
// dialogue orchestrator and the chat endpoints.
func New(ctx context.Context, cfg *config.Config, docStore DocumentStore) (*App, error) {
	embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("embedder init error: %w", err)
	}

	chatClient, err := gemini.NewChat(ctx, cfg.GeminiAPIKey, cfg.ChatModel)
	if err != nil {
		return nil, fmt.Errorf("chat client init error: %w", err)
	}

	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stdout)
	}

	retrievalService := retrieval.NewService(embedder, docStore, queryLogger,
		cfg.RetrievalLimit, cfg.MinSimilarity, cfg.RecentTurns)
	orchestrator := dialogue.NewOrchestrator(chatClient, retrievalService,
		time.Duration(cfg.RequestTimeoutSeconds)*time.Second)
	chatHandler := chat.NewHandler(orchestrator, docStore)

	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("POST /chat", middleware.CorrelationID(enableCORS(chatHandler.Message)))
	mux.Handle("GET /chat/greeting", middleware.CorrelationID(enableCORS(chatHandler.Greeting)))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return &App{Handler: mux, port: cfg.ServerPort}, nil
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
