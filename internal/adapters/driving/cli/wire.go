package cli

import (
	"context"
	"fmt"

	"github.com/forkful-labs/forkful-cli/internal/adapters/driven/config/file"
	"github.com/forkful-labs/forkful-cli/internal/adapters/driven/embedding/ollama"
	"github.com/forkful-labs/forkful-cli/internal/adapters/driven/embedding/openai"
	csvsource "github.com/forkful-labs/forkful-cli/internal/adapters/driven/source/csv"
	storefile "github.com/forkful-labs/forkful-cli/internal/adapters/driven/storage/file"
	"github.com/forkful-labs/forkful-cli/internal/adapters/driven/storage/sqlite"
	vecmemory "github.com/forkful-labs/forkful-cli/internal/adapters/driven/vectorindex/memory"
	"github.com/forkful-labs/forkful-cli/internal/adapters/driven/vectorindex/pinecone"
	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
	"github.com/forkful-labs/forkful-cli/internal/core/services"
	"github.com/forkful-labs/forkful-cli/internal/pipeline/chunker"
)

// buildEmbedder constructs the configured embedding service.
func buildEmbedder(cfg *file.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "", "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	case "openai":
		key := file.APIKey(cfg.Embedding.APIKeyEnv, "OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("%w: OpenAI API key", domain.ErrConfigMissing)
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     key,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, cfg.Embedding.Provider)
	}
}

// buildIndex constructs the configured vector index.
func buildIndex(cfg *file.Config) (driven.VectorIndex, error) {
	switch cfg.Index.Provider {
	case "", "memory":
		return vecmemory.New(), nil
	case "pinecone":
		key := file.APIKey(cfg.Index.APIKeyEnv, "PINECONE_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("%w: Pinecone API key", domain.ErrConfigMissing)
		}
		if cfg.Index.Host == "" {
			return nil, fmt.Errorf("%w: Pinecone index host", domain.ErrConfigMissing)
		}
		return pinecone.New(pinecone.Config{Host: cfg.Index.Host, APIKey: key})
	default:
		return nil, fmt.Errorf("%w: unknown index provider %q", domain.ErrInvalidInput, cfg.Index.Provider)
	}
}

// buildStore constructs the configured recipe cache. The second return
// reports whether the backend owns primary keys (opaque ids).
func buildStore(cfg *file.Config) (driven.RecipeStore, bool, error) {
	switch cfg.Store.Backend {
	case "", "file":
		store, err := storefile.NewRecipeStore(cfg.Store.DataDir)
		return store, false, err
	case "sqlite":
		store, err := sqlite.NewRecipeStore(cfg.Store.DataDir)
		return store, true, err
	default:
		return nil, false, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, cfg.Store.Backend)
	}
}

// setupQueryServices wires the search and matcher services for query
// commands.
func setupQueryServices() (*file.Config, error) {
	cfg, err := file.Load(flagConfigDir)
	if err != nil {
		return nil, err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	index, err := buildIndex(cfg)
	if err != nil {
		return nil, err
	}
	store, _, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	search := services.NewSearchService(embedder, index, services.SearchConfig{
		Namespace:       cfg.Index.Namespace,
		OverfetchFactor: cfg.Pipeline.OverfetchFactor,
		SumWeight:       cfg.Pipeline.SumWeight,
	})
	searchService = search
	matcherService = services.NewMatcherService(store, search, services.MatcherConfig{
		LenientThreshold: cfg.Pipeline.LenientThreshold,
		FallbackTrigger:  cfg.Pipeline.FallbackTrigger,
		FallbackTopK:     cfg.Pipeline.FallbackTopK,
	})
	return cfg, nil
}

// setupIngestor wires the ingestion pipeline for the given CSV path.
func setupIngestor(csvPath, namespace string) (*file.Config, error) {
	cfg, err := file.Load(flagConfigDir)
	if err != nil {
		return nil, err
	}
	if namespace != "" {
		cfg.Index.Namespace = namespace
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	// Fail fast before committing to a long run.
	if err := embedder.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("embedding service unreachable: %w", err)
	}
	index, err := buildIndex(cfg)
	if err != nil {
		return nil, err
	}
	store, opaqueIDs, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}
	checkpoints, err := storefile.NewCheckpointStore(cfg.Store.DataDir)
	if err != nil {
		return nil, err
	}
	deadLetters, err := storefile.NewDeadLetterStore(cfg.Store.DataDir)
	if err != nil {
		return nil, err
	}

	chunks := chunker.New(
		chunker.WithSize(cfg.Pipeline.ChunkSize),
		chunker.WithOverlap(cfg.Pipeline.ChunkOverlap),
	)

	ingestor = services.NewIngestor(
		csvsource.New(csvPath),
		store,
		checkpoints,
		deadLetters,
		embedder,
		index,
		chunks,
		services.IngestConfig{
			Namespace:       cfg.Index.Namespace,
			EmbedBatchSize:  cfg.Pipeline.EmbedBatchSize,
			UpsertBatchSize: cfg.Pipeline.UpsertBatchSize,
			CheckpointEvery: cfg.Pipeline.CheckpointEvery,
			OpaqueIDs:       opaqueIDs,
		},
	)
	return cfg, nil
}
