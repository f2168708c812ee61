package driving

import "context"

// IngestStats summarises one ingestion run.
type IngestStats struct {
	// RowsProcessed counts rows fully handled this run (skipped rows from
	// an earlier checkpointed run are not included).
	RowsProcessed int

	// ChunksIndexed counts vectors successfully written to the index.
	ChunksIndexed int

	// BatchesDropped counts embedding batches lost to API failures.
	BatchesDropped int

	// SlicesDeadLettered counts upsert slices diverted to the side store.
	SlicesDeadLettered int
}

// Ingestor drives the offline batch pipeline that populates the vector
// index and the recipe cache from a bulk source.
type Ingestor interface {
	// Ingest runs the pipeline to completion, resuming from the last
	// checkpoint. Per-batch failures are logged and skipped; only
	// unrecoverable errors abort the run. Stats are returned even on error.
	Ingest(ctx context.Context) (IngestStats, error)
}
