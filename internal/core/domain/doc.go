// Package domain defines the core business entities for Forkful.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceRecord: One raw row read from a bulk recipe source
//   - Recipe: The durable parent document returned to users
//   - ChunkMetadata: The typed metadata carried by every indexed chunk
//   - RecipeResult / IngredientMatch: Ephemeral query-time results
//   - Checkpoint: Ingestion progress
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
