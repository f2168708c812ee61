// Package file loads and saves the application configuration.
//
// Configuration lives in a TOML file in the forkful config directory, with
// API keys overridable from the environment (a .env file is honoured by the
// CLI). Defaults are applied on load so a missing file is a valid, fully
// local setup.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultNamespace is the vector index partition used when none is
// configured.
const DefaultNamespace = "production"

// EmbeddingConfig selects and configures the embedding service.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `toml:"provider"`

	// Model overrides the provider's default embedding model.
	Model string `toml:"model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `toml:"api_key_env"`

	// Dimensions overrides the model's default vector size.
	Dimensions int `toml:"dimensions"`
}

// IndexConfig selects and configures the vector index.
type IndexConfig struct {
	// Provider is "pinecone" or "memory".
	Provider string `toml:"provider"`

	// Host is the Pinecone index data-plane host.
	Host string `toml:"host"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `toml:"api_key_env"`

	// Namespace is the default partition (default: production).
	Namespace string `toml:"namespace"`
}

// StoreConfig selects the recipe cache backend.
type StoreConfig struct {
	// Backend is "file" or "sqlite". The sqlite backend assigns opaque
	// primary ids during ingestion.
	Backend string `toml:"backend"`

	// DataDir overrides the default ~/.forkful/data directory.
	DataDir string `toml:"data_dir"`
}

// PipelineConfig tunes chunking, batching and scoring.
type PipelineConfig struct {
	ChunkSize        int     `toml:"chunk_size"`
	ChunkOverlap     int     `toml:"chunk_overlap"`
	EmbedBatchSize   int     `toml:"embed_batch_size"`
	UpsertBatchSize  int     `toml:"upsert_batch_size"`
	CheckpointEvery  int     `toml:"checkpoint_every"`
	OverfetchFactor  int     `toml:"overfetch_factor"`
	SumWeight        float64 `toml:"sum_weight"`
	LenientThreshold float64 `toml:"lenient_threshold"`
	FallbackTrigger  int     `toml:"fallback_trigger"`
	FallbackTopK     int     `toml:"fallback_top_k"`
}

// Config is the root configuration.
type Config struct {
	Embedding EmbeddingConfig `toml:"embedding"`
	Index     IndexConfig     `toml:"index"`
	Store     StoreConfig     `toml:"store"`
	Pipeline  PipelineConfig  `toml:"pipeline"`
}

// Default returns the configuration used when no file exists: a local
// Ollama embedder, an in-memory index and a file-backed cache.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{Provider: "ollama"},
		Index:     IndexConfig{Provider: "memory", Namespace: DefaultNamespace},
		Store:     StoreConfig{Backend: "file"},
	}
}

// Path returns the config file path for a config directory, defaulting to
// ~/.forkful/config.toml.
func Path(configDir string) (string, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".forkful")
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads the configuration from configDir, returning defaults when the
// file does not exist.
func Load(configDir string) (*Config, error) {
	path, err := Path(configDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Index.Namespace == "" {
		cfg.Index.Namespace = DefaultNamespace
	}
	return cfg, nil
}

// Save writes the configuration to configDir, creating it when needed.
func Save(configDir string, cfg *Config) error {
	path, err := Path(configDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// APIKey resolves the API key for a configured env var name, falling back
// to the given default variable.
func APIKey(envName, fallback string) string {
	if envName == "" {
		envName = fallback
	}
	return os.Getenv(envName)
}
