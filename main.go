package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pat/backend/internal/adapter/gemini"
	"pat/backend/internal/app"
	"pat/backend/internal/config"
	"pat/backend/internal/ingest"
	"pat/backend/internal/logger"
)

func main() {
	// Initialize structured logger with correlation-id propagation
	base := slog.NewJSONHandler(os.Stdout, nil)
	slog.SetDefault(slog.New(logger.NewContextHandler(base)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer deps.DB.Close()

	if cfg.EnableSeeder {
		if err := runSeeder(ctx, cfg, deps.Store); err != nil {
			slog.Error("seeding failed", "error", err)
			os.Exit(1)
		}
	}

	if !cfg.EnableAPI {
		slog.Info("api disabled, exiting after seeding")
		return
	}

	application, err := app.New(ctx, cfg, deps.Store)
	if err != nil {
		slog.Error("failed to assemble application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func runSeeder(ctx context.Context, cfg *config.Config, docStore app.DocumentStore) error {
	embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return err
	}
	defer embedder.Close()

	corpus := ingest.NewDirCorpus(cfg.DataPath, cfg.CorpusRepo, cfg.DownloadData)
	pipeline := ingest.NewPipeline(corpus, embedder, docStore, cfg.ChunkSize, cfg.OverlapSentences)

	report, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	if report.Skipped {
		slog.Info("seeding skipped", "reason", report.Reason)
		return nil
	}
	slog.Info("seeding complete",
		"files_processed", report.FilesProcessed,
		"files_failed", report.FilesFailed,
		"chunks_stored", report.ChunksStored)
	return nil
}
