package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forkful-labs/forkful-cli/internal/core/domain"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driven"
	"github.com/forkful-labs/forkful-cli/internal/core/ports/driving"
	"github.com/forkful-labs/forkful-cli/internal/logger"
	"github.com/forkful-labs/forkful-cli/internal/pipeline/chunker"
	"github.com/forkful-labs/forkful-cli/internal/pipeline/composer"
)

// Ensure Ingestor implements the interface.
var _ driving.Ingestor = (*Ingestor)(nil)

// Ingestion tunables.
const (
	// DefaultEmbedBatchSize amortises per-call embedding API overhead and
	// stays under upstream request size limits.
	DefaultEmbedBatchSize = 64

	// DefaultUpsertBatchSize is the slice size for vector index writes.
	DefaultUpsertBatchSize = 100

	// DefaultCheckpointEvery bounds how many rows a crash can lose.
	DefaultCheckpointEvery = 25
)

// IngestConfig tunes the ingestion pipeline.
type IngestConfig struct {
	// Namespace is the vector index partition to write into.
	Namespace string

	// EmbedBatchSize is how many composed chunk texts accumulate before
	// one embedding call.
	EmbedBatchSize int

	// UpsertBatchSize is how many vectors accumulate before one index
	// write.
	UpsertBatchSize int

	// CheckpointEvery is the row interval between checkpoint and cache
	// flushes.
	CheckpointEvery int

	// OpaqueIDs assigns generated primary ids instead of content-derived
	// ones. Used when a relational store owns primary keys; the chunk
	// metadata then carries both ids for backward-compatible lookups.
	OpaqueIDs bool
}

func (c *IngestConfig) applyDefaults() {
	if c.EmbedBatchSize <= 0 {
		c.EmbedBatchSize = DefaultEmbedBatchSize
	}
	if c.UpsertBatchSize <= 0 {
		c.UpsertBatchSize = DefaultUpsertBatchSize
	}
	if c.CheckpointEvery <= 0 {
		c.CheckpointEvery = DefaultCheckpointEvery
	}
}

// Ingestor transforms a bulk recipe source into indexed vectors, resumably.
type Ingestor struct {
	source      driven.RecipeSource
	store       driven.RecipeStore
	checkpoints driven.CheckpointStore
	deadLetters driven.DeadLetterStore
	embedder    driven.EmbeddingService
	index       driven.VectorIndex
	chunks      *chunker.Chunker
	cfg         IngestConfig

	mu      sync.Mutex
	running bool
}

// NewIngestor creates the ingestion pipeline.
func NewIngestor(
	source driven.RecipeSource,
	store driven.RecipeStore,
	checkpoints driven.CheckpointStore,
	deadLetters driven.DeadLetterStore,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	chunks *chunker.Chunker,
	cfg IngestConfig,
) *Ingestor {
	cfg.applyDefaults()
	if chunks == nil {
		chunks = chunker.New()
	}
	return &Ingestor{
		source:      source,
		store:       store,
		checkpoints: checkpoints,
		deadLetters: deadLetters,
		embedder:    embedder,
		index:       index,
		chunks:      chunks,
		cfg:         cfg,
	}
}

// pendingChunk pairs a composed text with its not-yet-embedded vector item.
type pendingChunk struct {
	text string
	item driven.VectorItem
}

// ingestRun holds the mutable buffers of one run.
type ingestRun struct {
	pending   []pendingChunk
	upserts   []driven.VectorItem
	stats     driving.IngestStats
	lastRow   int
	namespace string
}

// Ingest implements driving.Ingestor. Embedding failures drop the affected
// batch and the run continues; upsert failures divert the slice to the dead
// letter store. The final checkpoint and cache flush happen unconditionally
// so progress is never silently lost.
func (ing *Ingestor) Ingest(ctx context.Context) (driving.IngestStats, error) {
	ing.mu.Lock()
	if ing.running {
		ing.mu.Unlock()
		return driving.IngestStats{}, domain.ErrIngestInProgress
	}
	ing.running = true
	ing.mu.Unlock()
	defer func() {
		ing.mu.Lock()
		ing.running = false
		ing.mu.Unlock()
	}()

	run := &ingestRun{namespace: ing.cfg.Namespace}

	if ing.embedder == nil {
		return run.stats, domain.ErrEmbeddingUnavailable
	}
	if ing.index == nil {
		return run.stats, domain.ErrVectorIndexUnavailable
	}

	cp, err := ing.checkpoints.Load(ctx)
	if err != nil {
		return run.stats, fmt.Errorf("load checkpoint: %w", err)
	}
	run.lastRow = cp.LastProcessedRow

	rows, err := ing.source.ReadAll(ctx)
	if err != nil {
		return run.stats, fmt.Errorf("read source: %w", err)
	}

	logger.Section("Ingestion")
	logger.Info("Source has %d rows, resuming after row %d", len(rows), cp.LastProcessedRow)

	// Progress is committed even when the loop bails out early.
	defer ing.finalise(ctx, run)

	for i := range rows {
		rowNum := i + 1
		if rowNum <= cp.LastProcessedRow {
			continue
		}
		if err := ctx.Err(); err != nil {
			return run.stats, err
		}

		ing.processRow(ctx, run, rows[i])
		run.stats.RowsProcessed++
		run.lastRow = rowNum

		if rowNum%ing.cfg.CheckpointEvery == 0 {
			ing.commit(ctx, run)
		}
	}

	// Flush the tail batch before the deferred finalise commits the
	// checkpoint, so the final buffers are drained exactly once.
	ing.flushEmbedBatch(ctx, run)
	ing.flushUpserts(ctx, run, 0)

	logger.Info("Ingestion done: %d rows, %d chunks indexed, %d batches dropped, %d slices dead-lettered",
		run.stats.RowsProcessed, run.stats.ChunksIndexed,
		run.stats.BatchesDropped, run.stats.SlicesDeadLettered)
	return run.stats, nil
}

// processRow builds the recipe, caches it and queues its chunks for
// embedding.
func (ing *Ingestor) processRow(ctx context.Context, run *ingestRun, rec domain.SourceRecord) {
	legacyID := domain.DeriveRecipeID(rec)
	id := legacyID
	if ing.cfg.OpaqueIDs {
		id = uuid.New().String()
	}

	recipe := domain.NewRecipe(id, legacyID, rec, time.Now().UTC())
	if err := ing.store.Put(ctx, recipe); err != nil {
		logger.Warn("Cache put failed for %s: %v", legacyID, err)
		return
	}

	texts := ing.chunks.Split(composer.FullInstructions(rec))
	if len(texts) == 0 {
		// Every recipe is represented in the index, even without
		// instructions.
		texts = []string{""}
	}

	prefix := composer.Prefix(rec)
	ingredients := domain.NormalizeIngredients(domain.SplitIngredients(rec.Ingredients))

	for idx, text := range texts {
		meta := domain.ChunkMetadata{
			RecipeID:    recipe.ID,
			LegacyID:    recipe.LegacyID,
			ChunkIndex:  idx,
			TotalChunks: len(texts),
			Title:       recipe.Title,
			Tags:        recipe.CombinedTags,
			Ingredients: ingredients,
			Cuisine:     recipe.Cuisine,
			Course:      recipe.Course,
			Diet:        recipe.Diet,
			ImageURL:    recipe.ImageURL,
			Text:        text,
		}
		run.pending = append(run.pending, pendingChunk{
			text: prefix + text,
			item: driven.VectorItem{ID: domain.ChunkID(recipe.ID, idx), Metadata: meta},
		})
	}

	if len(run.pending) >= ing.cfg.EmbedBatchSize {
		ing.flushEmbedBatch(ctx, run)
	}
}

// flushEmbedBatch embeds all pending texts in one call. A failed or
// malformed batch is dropped and logged; partial ingestion beats total
// failure on a single API hiccup.
func (ing *Ingestor) flushEmbedBatch(ctx context.Context, run *ingestRun) {
	if len(run.pending) == 0 {
		return
	}
	batch := run.pending
	run.pending = nil

	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].text
	}

	vectors, err := ing.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("Embedding batch of %d failed, dropping: %v", len(texts), err)
		run.stats.BatchesDropped++
		return
	}
	if len(vectors) != len(texts) {
		logger.Warn("Embedding batch of %d: %v (got %d vectors)", len(texts), domain.ErrEmbeddingMismatch, len(vectors))
		run.stats.BatchesDropped++
		return
	}
	for i, v := range vectors {
		if len(v) == 0 {
			logger.Warn("Embedding batch of %d: empty vector at %d, dropping batch", len(texts), i)
			run.stats.BatchesDropped++
			return
		}
	}

	for i := range batch {
		item := batch[i].item
		item.Values = vectors[i]
		run.upserts = append(run.upserts, item)
	}

	ing.flushUpserts(ctx, run, ing.cfg.UpsertBatchSize)
}

// flushUpserts writes buffered vectors in slices. With minSize zero the
// buffer drains completely. A failed slice is diverted to the dead letter
// store and the run continues with the next slice.
func (ing *Ingestor) flushUpserts(ctx context.Context, run *ingestRun, minSize int) {
	for len(run.upserts) > 0 && len(run.upserts) >= minSize {
		n := ing.cfg.UpsertBatchSize
		if n > len(run.upserts) {
			n = len(run.upserts)
		}
		slice := run.upserts[:n]
		run.upserts = run.upserts[n:]

		if err := ing.index.Upsert(ctx, run.namespace, slice); err != nil {
			logger.Warn("Upsert of %d vectors failed: %v", len(slice), err)
			run.stats.SlicesDeadLettered++
			if ing.deadLetters != nil {
				if dlErr := ing.deadLetters.Record(ctx, run.namespace, slice, err); dlErr != nil {
					logger.Warn("Dead letter write failed: %v", dlErr)
				}
			}
			continue
		}
		run.stats.ChunksIndexed += len(slice)
	}
}

// commit persists the cache and the checkpoint.
func (ing *Ingestor) commit(ctx context.Context, run *ingestRun) {
	if err := ing.store.Flush(ctx); err != nil {
		logger.Warn("Cache flush failed: %v", err)
		return
	}
	cp := domain.Checkpoint{LastProcessedRow: run.lastRow}
	if err := ing.checkpoints.Save(ctx, cp); err != nil {
		logger.Warn("Checkpoint save failed: %v", err)
		return
	}
	logger.Debug("Checkpoint at row %d", run.lastRow)
}

// finalise drains remaining buffers and commits, including after an error.
func (ing *Ingestor) finalise(ctx context.Context, run *ingestRun) {
	ing.flushEmbedBatch(ctx, run)
	ing.flushUpserts(ctx, run, 0)
	ing.commit(ctx, run)
}
