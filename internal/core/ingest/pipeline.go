package ingest

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/llm"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// Pipeline turns raw documents into embedded chunks in the right namespace:
// extract -> chunk -> embed -> upsert.
type Pipeline struct {
	indexes   map[models.SourceType]core.VectorIndex
	embedder  *llm.Embedder
	extractor core.DocumentExtractor
	obj       core.ObjectClient
	chunkSize int
	logger    zerolog.Logger
	jobs      chan job
}

// job is one queued ingestion of an object-store key.
type job struct {
	Key      string
	Filename string
	Source   models.SourceType
}

func NewPipeline(
	indexes map[models.SourceType]core.VectorIndex,
	embedder *llm.Embedder,
	extractor core.DocumentExtractor,
	obj core.ObjectClient,
	chunkSize int,
	logger zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		indexes:   indexes,
		embedder:  embedder,
		extractor: extractor,
		obj:       obj,
		chunkSize: chunkSize,
		logger:    logger.With().Str("component", "ingest").Logger(),
		jobs:      make(chan job, 64),
	}
}

// Provision creates every namespace's schema and similarity index. Schema
// must exist before the index; failures are fatal, not retried.
func (p *Pipeline) Provision(ctx context.Context) error {
	for _, idx := range p.indexes {
		if err := idx.CreateSchema(ctx); err != nil {
			return err
		}
		if err := idx.CreateIndex(ctx); err != nil {
			return err
		}
	}
	return nil
}

// IngestDocument extracts, chunks, embeds and stores one document into the
// namespace owned by source. Returns the number of chunks written.
func (p *Pipeline) IngestDocument(ctx context.Context, r io.Reader, filename string, source models.SourceType) (int, error) {
	idx, ok := p.indexes[source]
	if !ok {
		return 0, fmt.Errorf("no store configured for source %q", source)
	}

	doc, err := p.extractor.Extract(ctx, r, filename)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", filename, err)
	}

	windows := Split(doc.Text, p.chunkSize)
	if len(windows) == 0 {
		p.logger.Warn().Str("filename", filename).Msg("document produced no chunks")
		return 0, nil
	}

	chunks := make([]models.Chunk, 0, len(windows))
	for _, w := range windows {
		vec, err := p.embedder.Embed(ctx, w.Text)
		if err != nil {
			return 0, err
		}

		id, err := uuid.NewUUID()
		if err != nil {
			return 0, fmt.Errorf("generate chunk id: %w", err)
		}

		meta := make(map[string]any, len(doc.Metadata)+3)
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		meta[models.MetaChunkID] = w.Index
		meta[models.MetaCharStart] = w.Start
		meta[models.MetaCharEnd] = w.End

		chunks = append(chunks, models.Chunk{
			ID:        id,
			Content:   w.Text,
			Metadata:  meta,
			Embedding: vec,
		})
	}

	if err := idx.Upsert(ctx, chunks); err != nil {
		return 0, err
	}

	p.logger.Info().
		Str("filename", filename).
		Str("source", string(source)).
		Int("chunks", len(chunks)).
		Msg("ingested document")
	return len(chunks), nil
}

// IngestFAQ embeds and stores structured FAQ records. Each record is one
// chunk; offsets do not apply to structured sources.
func (p *Pipeline) IngestFAQ(ctx context.Context, r io.Reader) (int, error) {
	idx, ok := p.indexes[models.SourceFAQ]
	if !ok {
		return 0, fmt.Errorf("no store configured for source %q", models.SourceFAQ)
	}

	records, err := ReadFAQCSV(r)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	chunks := make([]models.Chunk, 0, len(records))
	for _, rec := range records {
		content := rec.Content()
		vec, err := p.embedder.Embed(ctx, content)
		if err != nil {
			return 0, err
		}

		id, err := uuid.NewUUID()
		if err != nil {
			return 0, fmt.Errorf("generate chunk id: %w", err)
		}

		chunks = append(chunks, models.Chunk{
			ID:      id,
			Content: content,
			Metadata: map[string]any{
				models.MetaCategory:  rec.Category,
				models.MetaCreatedAt: time.Now().UTC().Format(time.RFC3339),
			},
			Embedding: vec,
		})
	}

	if err := idx.Upsert(ctx, chunks); err != nil {
		return 0, err
	}

	p.logger.Info().Int("records", len(chunks)).Msg("ingested faq dataset")
	return len(chunks), nil
}

// Start runs worker goroutines that drain the job queue. Each job fetches a
// stored object and ingests it; a failed job is logged, not retried.
func (p *Pipeline) Start(ctx context.Context, numWorkers int) {
	for w := 1; w <= numWorkers; w++ {
		go func(w int) {
			for {
				select {
				case <-ctx.Done():
					p.logger.Info().Int("worker", w).Msg("ingest worker shutting down")
					return
				case j := <-p.jobs:
					if err := p.processOne(ctx, j); err != nil {
						p.logger.Error().Err(err).Str("key", j.Key).Msg("ingestion failed")
					}
				}
			}
		}(w)
	}
}

// Enqueue schedules an uploaded object for ingestion. Blocks when the queue
// is full.
func (p *Pipeline) Enqueue(key, filename string, source models.SourceType) {
	p.jobs <- job{Key: key, Filename: filename, Source: source}
}

func (p *Pipeline) processOne(ctx context.Context, j job) error {
	procCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	rc, err := p.obj.GetObjectReader(procCtx, j.Key)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", j.Key, err)
	}
	defer rc.Close()

	if j.Source == models.SourceFAQ {
		_, err = p.IngestFAQ(procCtx, rc)
		return err
	}
	_, err = p.IngestDocument(procCtx, rc, j.Filename, j.Source)
	return err
}

// SourceForFilename maps a document filename to the namespace that owns it:
// CSVs are FAQ datasets, PDFs go to the PDF store, everything else is a
// word-processor document.
func SourceForFilename(filename string) models.SourceType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return models.SourceFAQ
	case ".pdf":
		return models.SourcePDF
	default:
		return models.SourceDoc
	}
}
