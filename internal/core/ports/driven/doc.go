// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RecipeSource: Reads bulk recipe rows (CSV)
//   - RecipeStore: Full-document cache keyed by recipe id
//   - CheckpointStore: Ingestion progress persistence
//   - DeadLetterStore: Side storage for failed index writes
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, ingestion
//     and semantic search are disabled; the exact ingredient tier still works.
//   - VectorIndex: Vector storage/search. Only useful with an EmbeddingService.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
