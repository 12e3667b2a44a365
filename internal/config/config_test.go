package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DBHost:           "localhost",
		DBUser:           "pat_user",
		DBName:           "pat_db",
		VectorBackend:    BackendPgvector,
		EmbeddingDim:     3072,
		ChunkSize:        2500,
		OverlapSentences: 2,
		MinSimilarity:    0.7,
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("weaviate backend is accepted", func(t *testing.T) {
		cfg := validConfig()
		cfg.VectorBackend = BackendWeaviate
		assert.NoError(t, cfg.Validate())
	})

	tests := []struct {
		name     string
		mutate   func(*Config)
		expected error
	}{
		{"missing db host", func(c *Config) { c.DBHost = "" }, ErrMissingRequired},
		{"missing db user", func(c *Config) { c.DBUser = "" }, ErrMissingRequired},
		{"missing db name", func(c *Config) { c.DBName = "" }, ErrMissingRequired},
		{"unknown vector backend", func(c *Config) { c.VectorBackend = "pinecone" }, ErrInvalidValue},
		{"non-positive embedding dim", func(c *Config) { c.EmbeddingDim = 0 }, ErrInvalidValue},
		{"non-positive chunk size", func(c *Config) { c.ChunkSize = -1 }, ErrInvalidValue},
		{"negative overlap", func(c *Config) { c.OverlapSentences = -1 }, ErrInvalidValue},
		{"similarity above one", func(c *Config) { c.MinSimilarity = 1.5 }, ErrInvalidValue},
		{"similarity below zero", func(c *Config) { c.MinSimilarity = -0.1 }, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.expected)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendPgvector, cfg.VectorBackend)
	assert.Equal(t, 3072, cfg.EmbeddingDim)
	assert.Equal(t, 2500, cfg.ChunkSize)
	assert.Equal(t, 2, cfg.OverlapSentences)
	assert.Equal(t, 3, cfg.RetrievalLimit)
	assert.Equal(t, 0.7, cfg.MinSimilarity)
	assert.Equal(t, 3, cfg.RecentTurns)
	assert.True(t, cfg.EnableAPI)
	assert.True(t, cfg.EnableSeeder)
	assert.Equal(t, 8081, cfg.ServerPort)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VECTOR_BACKEND", "weaviate")
	t.Setenv("CHUNK_SIZE", "1000")
	t.Setenv("MIN_SIMILARITY", "0.5")
	t.Setenv("ENABLE_API", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendWeaviate, cfg.VectorBackend)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 0.5, cfg.MinSimilarity)
	assert.False(t, cfg.EnableAPI)
}

func TestLoad_RejectsInvalidEnv(t *testing.T) {
	t.Setenv("VECTOR_BACKEND", "pinecone")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidValue)
}
