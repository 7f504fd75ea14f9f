package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/app"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/config"
	db "github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/database"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/ingest"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/llm"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// Batch ingestion: provisions the namespaces and loads FAQ datasets, PDFs
// and word-processor documents from local paths.
//
//	ingest -provision
//	ingest -faq data/faq_dataset.csv
//	ingest docs/handbook.pdf docs/policy.docx
func main() {
	provision := flag.Bool("provision", false, "create schemas and similarity indexes before ingesting")
	faqPath := flag.String("faq", "", "path to a semicolon-separated FAQ dataset")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg := config.LoadConfig()
	ctx := context.Background()

	dbClient, err := db.NewClient(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer dbClient.Close()

	factory, err := llm.NewFactory(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("provider init failed")
	}
	defer factory.Close()

	provider, err := factory.Embedding(cfg.Provider)
	if err != nil {
		logger.Fatal().Err(err).Msg("no embedding provider")
	}
	embedder := llm.NewEmbedder(provider, logger)

	indexes := app.BuildIndexes(dbClient, cfg.EmbedDim)
	// Local-file ingestion needs no object storage.
	pipeline := ingest.NewPipeline(indexes, embedder, ingest.NewDocconvExtractor(), nil, cfg.ChunkSize, logger)

	if *provision {
		if err := pipeline.Provision(ctx); err != nil {
			logger.Fatal().Err(err).Msg("provisioning failed")
		}
		logger.Info().Msg("namespaces provisioned")
	}

	if *faqPath != "" {
		ingestFile(ctx, logger, pipeline, *faqPath, models.SourceFAQ)
	}
	for _, path := range flag.Args() {
		ingestFile(ctx, logger, pipeline, path, ingest.SourceForFilename(path))
	}
}

func ingestFile(ctx context.Context, logger zerolog.Logger, pipeline *ingest.Pipeline, path string, source models.SourceType) {
	f, err := os.Open(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("cannot open file")
		return
	}
	defer f.Close()

	var n int
	if source == models.SourceFAQ {
		n, err = pipeline.IngestFAQ(ctx, f)
	} else {
		n, err = pipeline.IngestDocument(ctx, f, path, source)
	}
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("ingestion failed")
		return
	}
	logger.Info().Str("path", path).Int("chunks", n).Msg("ingested")
}
