package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/config"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	db "github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/database"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/ingest"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/llm"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/objectstore"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/services"
)

// Namespace tables, one per source store.
const (
	NamespaceFAQ = "faq_embeddings"
	NamespacePDF = "pdf_embeddings"
	NamespaceDoc = "doc_embeddings"
)

// App holds the wired components. Stores are explicitly constructed and
// injected; nothing is process-global.
type App struct {
	DBClient *db.Client
	Factory  *llm.Factory
	Pipeline *ingest.Pipeline
	Session  *services.Session
	Server   *Server
	logger   zerolog.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	initCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewClient(initCtx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("database connected")

	objClient, err := objectstore.NewS3Client(initCtx, cfg, logger)
	if err != nil {
		return nil, err
	}

	factory, err := llm.NewFactory(initCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init providers: %w", err)
	}

	provider, err := factory.Embedding(cfg.Provider)
	if err != nil {
		return nil, err
	}
	embedder := llm.NewEmbedder(provider, logger)

	indexes := BuildIndexes(dbClient, cfg.EmbedDim)
	stores := BuildStores(indexes)

	pipeline := ingest.NewPipeline(indexes, embedder, ingest.NewDocconvExtractor(), objClient, cfg.ChunkSize, logger)

	fuser := services.NewFuser(stores, logger)
	synth := services.NewSynthesizer(factory)

	defaults := models.DefaultSettings()
	defaults.Provider = cfg.Provider
	if cfg.GenModel != "" {
		defaults.Model = cfg.GenModel
	}
	settings, err := services.LoadSettings(cfg.SettingsPath, defaults)
	if err != nil {
		logger.Warn().Err(err).Msg("settings file unreadable, using defaults")
		settings = defaults
	}
	session := services.NewSession(settings, embedder, fuser, synth, logger)

	server := NewServer(cfg, objClient, pipeline, session, logger)

	return &App{
		DBClient: dbClient,
		Factory:  factory,
		Pipeline: pipeline,
		Session:  session,
		Server:   server,
		logger:   logger,
	}, nil
}

// BuildIndexes constructs one vector index per namespace.
func BuildIndexes(client *db.Client, dim int) map[models.SourceType]core.VectorIndex {
	return map[models.SourceType]core.VectorIndex{
		models.SourceFAQ: client.Index(NamespaceFAQ, dim),
		models.SourcePDF: client.Index(NamespacePDF, dim),
		models.SourceDoc: client.Index(NamespaceDoc, dim),
	}
}

// BuildStores wraps the indexes into source-tagged retrieval stores.
func BuildStores(indexes map[models.SourceType]core.VectorIndex) map[models.SourceType]*services.SourceStore {
	stores := make(map[models.SourceType]*services.SourceStore, len(indexes))
	for source, idx := range indexes {
		stores[source] = services.NewSourceStore(source, idx)
	}
	return stores
}

func (a *App) Close() {
	if a.Factory != nil {
		_ = a.Factory.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
