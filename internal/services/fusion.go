package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// Fuser merges ranked result lists from multiple namespaces into one
// globally ranked, limit-capped list.
type Fuser struct {
	stores map[models.SourceType]*SourceStore
	logger zerolog.Logger
}

func NewFuser(stores map[models.SourceType]*SourceStore, logger zerolog.Logger) *Fuser {
	return &Fuser{
		stores: stores,
		logger: logger.With().Str("component", "fusion").Logger(),
	}
}

// Fuse searches the requested sources and returns a globally re-ranked
// ResultSet. A single named source degenerates to that store's search output,
// unmodified. For multiple sources each store is asked for up to limit
// results (concurrently; there is no ordering dependency between the calls),
// then the concatenation is sorted ascending by distance and truncated to
// limit total — a source with no results wastes no slots, and a uniformly
// worse source is legitimately crowded out.
//
// A failing source contributes nothing and is logged; only when every source
// fails does Fuse return a *core.RetrievalFailure.
func (f *Fuser) Fuse(ctx context.Context, vector []float32, sources []models.SourceType, limit int, filter map[string]any) (models.ResultSet, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources requested")
	}

	if len(sources) == 1 {
		store, ok := f.stores[sources[0]]
		if !ok {
			return nil, fmt.Errorf("unknown source %q", sources[0])
		}
		results, err := store.Search(ctx, vector, limit, filter)
		if err != nil {
			return nil, &core.RetrievalFailure{Errs: []error{err}}
		}
		return results, nil
	}

	perSource := make([]models.ResultSet, len(sources))
	perErr := make([]error, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		store, ok := f.stores[src]
		if !ok {
			perErr[i] = fmt.Errorf("unknown source %q", src)
			continue
		}
		g.Go(func() error {
			results, err := store.Search(gctx, vector, limit, filter)
			if err != nil {
				// Absorb here so the other sources still run; the partial
				// failure policy is applied after the group finishes.
				perErr[i] = err
				return nil
			}
			perSource[i] = results
			return nil
		})
	}
	_ = g.Wait()

	var (
		combined models.ResultSet
		errs     []error
	)
	for i, src := range sources {
		if perErr[i] != nil {
			f.logger.Warn().Err(perErr[i]).Str("source", string(src)).Msg("source search failed; continuing without it")
			errs = append(errs, fmt.Errorf("%s: %w", src, perErr[i]))
			continue
		}
		combined = append(combined, perSource[i]...)
	}
	if len(errs) == len(sources) {
		return nil, &core.RetrievalFailure{Errs: errs}
	}

	sort.SliceStable(combined, func(a, b int) bool {
		return combined[a].Distance < combined[b].Distance
	})

	// Dedup by id keeping the lowest-distance occurrence. The slice is
	// already sorted, so the first occurrence wins.
	seen := make(map[uuid.UUID]struct{}, len(combined))
	fused := make(models.ResultSet, 0, min(limit, len(combined)))
	for _, r := range combined {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		fused = append(fused, r)
		if len(fused) == limit {
			break
		}
	}
	return fused, nil
}
