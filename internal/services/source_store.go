package services

import (
	"context"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// SourceStore scopes retrieval to one source's namespace and tags every
// result with its origin, reconciling the heterogeneous per-source metadata
// schemas into the common SearchResult shape (fixed core plus a
// source-specific metadata bag).
type SourceStore struct {
	source models.SourceType
	index  core.VectorIndex
}

func NewSourceStore(source models.SourceType, index core.VectorIndex) *SourceStore {
	return &SourceStore{source: source, index: index}
}

func (s *SourceStore) Source() models.SourceType { return s.source }

// Search runs a similarity search against this store's namespace. Results
// come back ascending by distance; an empty namespace yields an empty slice.
func (s *SourceStore) Search(ctx context.Context, vector []float32, limit int, filter map[string]any) (models.ResultSet, error) {
	records, err := s.index.Search(ctx, vector, limit, filter)
	if err != nil {
		return nil, err
	}

	out := make(models.ResultSet, 0, len(records))
	for _, rec := range records {
		out = append(out, models.SearchResult{
			ID:       rec.ID,
			Content:  rec.Content,
			Distance: rec.Distance,
			Source:   s.source,
			Metadata: rec.Metadata,
		})
	}
	return out, nil
}
