package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	pgstore "pat/backend/internal/adapter/pgvector"
	wstore "pat/backend/internal/adapter/weaviate"
	"pat/backend/internal/config"
	"pat/backend/internal/store"
	"pat/backend/internal/vector"
)

// DocumentStore is the full store surface the application wires: ingestion
// uses Insert/Count, retrieval uses SimilaritySearch.
type DocumentStore interface {
	Insert(ctx context.Context, chunk store.Chunk) error
	Count(ctx context.Context) (int, error)
	SimilaritySearch(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]store.Result, error)
}

type Dependencies struct {
	DB    *sql.DB
	Store DocumentStore
}

// Bootstrap opens the database, applies migrations, and constructs the
// configured document store backend. Connection checks retry: the backing
// services usually start alongside this process.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	retryDelay := time.Duration(cfg.BootstrapRetryDelaySeconds) * time.Second
	for i := 0; i < cfg.BootstrapRetryAttempts; i++ {
		if err := db.PingContext(ctx); err == nil {
			break
		}
		slog.Warn("failed to ping db, retrying...", "attempt", i+1)
		time.Sleep(retryDelay)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver error: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migration instance error: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return nil, fmt.Errorf("migration up error: %w", err)
	}
	slog.Info("migrations applied")

	docStore, err := buildStore(ctx, cfg, db)
	if err != nil {
		return nil, err
	}

	return &Dependencies{DB: db, Store: docStore}, nil
}

func buildStore(ctx context.Context, cfg *config.Config, db *sql.DB) (DocumentStore, error) {
	switch cfg.VectorBackend {
	case config.BackendPgvector:
		return pgstore.NewStore(db), nil

	case config.BackendWeaviate:
		client, err := weaviate.NewClient(weaviate.Config{
			Host:   cfg.WeaviateHost,
			Scheme: cfg.WeaviateScheme,
		})
		if err != nil {
			return nil, fmt.Errorf("weaviate client error: %w", err)
		}

		adapter := vector.NewWeaviateClientAdapter(client)
		retryDelay := time.Duration(cfg.BootstrapRetryDelaySeconds) * time.Second
		if err := ensureSchemaWithRetry(ctx, adapter, cfg.BootstrapRetryAttempts, retryDelay); err != nil {
			return nil, fmt.Errorf("weaviate schema error: %w", err)
		}
		return wstore.NewStore(client), nil

	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
}

func ensureSchemaWithRetry(ctx context.Context, client vector.SchemaClient, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = vector.EnsureSchema(ctx, client); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
