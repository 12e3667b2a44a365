package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var (
	ErrMissingRequired = errors.New("missing required configuration")
	ErrInvalidValue    = errors.New("invalid configuration value")
)

const (
	BackendPgvector = "pgvector"
	BackendWeaviate = "weaviate"
)

type Config struct {
	DBHost string `envconfig:"DB_HOST" default:"postgres"`
	DBPort int    `envconfig:"DB_PORT" default:"5432"`
	DBUser string `envconfig:"DB_USER" default:"pat_user"`
	DBPass string `envconfig:"DB_PASS" default:"pat_password"`
	DBName string `envconfig:"DB_NAME" default:"pat_db"`

	// Document store backend: pgvector (default) or weaviate.
	VectorBackend  string `envconfig:"VECTOR_BACKEND" default:"pgvector"`
	WeaviateHost   string `envconfig:"WEAVIATE_HOST" default:"localhost:8080"`
	WeaviateScheme string `envconfig:"WEAVIATE_SCHEME" default:"http"`

	GeminiAPIKey   string `envconfig:"GEMINI_API_KEY"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"gemini-embedding-001"`
	// Must match the store's vector column exactly; a mismatch is fatal.
	EmbeddingDim int    `envconfig:"EMBEDDING_DIM" default:"3072"`
	ChatModel    string `envconfig:"CHAT_MODEL" default:"gemini-2.0-flash"`

	// Corpus seeding
	DataPath         string `envconfig:"DATA_PATH" default:"/app/data"`
	DownloadData     bool   `envconfig:"DOWNLOAD_DATA" default:"false"`
	CorpusRepo       string `envconfig:"CORPUS_REPO" default:"https://github.com/Vassar-Cognitive-Science/pat-data.git"`
	ChunkSize        int    `envconfig:"CHUNK_SIZE" default:"2500"`
	OverlapSentences int    `envconfig:"OVERLAP_SENTENCES" default:"2"`

	// Retrieval
	RetrievalLimit int     `envconfig:"RETRIEVAL_LIMIT" default:"3"`
	MinSimilarity  float64 `envconfig:"MIN_SIMILARITY" default:"0.7"`
	RecentTurns    int     `envconfig:"RECENT_TURNS" default:"3"`

	// Roles: the seeder runs first (idempotent one-shot), then the API
	// serves. Disable ENABLE_API to use the binary as a pure seeding job.
	EnableAPI    bool `envconfig:"ENABLE_API" default:"true"`
	EnableSeeder bool `envconfig:"ENABLE_SEEDER" default:"true"`

	ServerPort            int    `envconfig:"SERVER_PORT" default:"8081"`
	QueryLogPath          string `envconfig:"QUERY_LOG_PATH" default:"data/logs/query.log"`
	MigrationPath         string `envconfig:"MIGRATION_PATH" default:"file://migrations"`
	RequestTimeoutSeconds int    `envconfig:"REQUEST_TIMEOUT_SECONDS" default:"60"`

	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
}

func Load() (*Config, error) {
	// Env vars may come from the shell instead; a missing .env is fine.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBHost == "" {
		return fmt.Errorf("%w: DB_HOST", ErrMissingRequired)
	}
	if c.DBUser == "" {
		return fmt.Errorf("%w: DB_USER", ErrMissingRequired)
	}
	if c.DBName == "" {
		return fmt.Errorf("%w: DB_NAME", ErrMissingRequired)
	}
	if c.VectorBackend != BackendPgvector && c.VectorBackend != BackendWeaviate {
		return fmt.Errorf("%w: VECTOR_BACKEND must be %q or %q", ErrInvalidValue, BackendPgvector, BackendWeaviate)
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("%w: EMBEDDING_DIM must be positive", ErrInvalidValue)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: CHUNK_SIZE must be positive", ErrInvalidValue)
	}
	if c.OverlapSentences < 0 {
		return fmt.Errorf("%w: OVERLAP_SENTENCES must not be negative", ErrInvalidValue)
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("%w: MIN_SIMILARITY must be within [0, 1]", ErrInvalidValue)
	}
	return nil
}
