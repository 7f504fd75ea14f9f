package core

import (
	"context"

	"github.com/google/uuid"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// Record is one stored row on the search path: id, metadata, content,
// embedding and the distance to the query vector.
type Record struct {
	ID        uuid.UUID
	Metadata  map[string]any
	Content   string
	Embedding []float32
	Distance  float64
}

// VectorIndex abstracts one namespace of the similarity index. It hides
// Postgres/pgvector so higher layers never depend on a specific engine.
type VectorIndex interface {
	// Namespace names the storage partition this index owns.
	Namespace() string

	// CreateSchema provisions the namespace's storage layout. Idempotent in
	// intent; failure surfaces as *SchemaError.
	CreateSchema(ctx context.Context) error

	// CreateIndex provisions the nearest-neighbor index structure. Must be
	// called after CreateSchema; failure surfaces as *SchemaError.
	CreateIndex(ctx context.Context) error

	// Upsert inserts or overwrites chunks by id, all-or-nothing per call.
	// Failure surfaces as *StoreWriteFailure carrying the batch size.
	Upsert(ctx context.Context, chunks []models.Chunk) error

	// Search returns the limit nearest records ascending by distance,
	// restricted to rows whose metadata satisfies the conjunctive equality
	// filter. A nil filter means no restriction; a filter key absent from
	// the namespace's metadata matches nothing.
	Search(ctx context.Context, vector []float32, limit int, filter map[string]any) ([]Record, error)
}
