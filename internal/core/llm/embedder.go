package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
)

// Embedder wraps a raw embedding provider with the single preprocessing rule
// the pipeline applies (newlines become spaces) and latency logging. Failures
// are not retried; they surface as *core.EmbeddingFailure.
type Embedder struct {
	provider core.EmbeddingProvider
	logger   zerolog.Logger
}

func NewEmbedder(provider core.EmbeddingProvider, logger zerolog.Logger) *Embedder {
	return &Embedder{
		provider: provider,
		logger:   logger.With().Str("component", "embedder").Logger(),
	}
}

// Embed returns the embedding vector for text. No lowercasing or trimming is
// applied; only newline replacement. Repeated identical calls are not
// deduplicated.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.ReplaceAll(text, "\n", " ")

	start := time.Now()
	vec, err := e.provider.EmbedText(ctx, text)
	elapsed := time.Since(start)
	if err != nil {
		return nil, &core.EmbeddingFailure{Err: err}
	}

	e.logger.Info().
		Dur("elapsed", elapsed).
		Int("dim", len(vec)).
		Msg("embedding generated")
	return vec, nil
}
