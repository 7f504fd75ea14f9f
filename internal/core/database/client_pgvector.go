package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/config"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// Client owns the shared Postgres pool. Each namespace gets its own
// PgVectorIndex on top of it.
type Client struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &Client{db: db, logger: logger.With().Str("component", "database").Logger()}, nil
}

func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Index returns the vector index for one namespace (one table with a
// pgvector column). Namespace names come from a fixed internal set; they are
// interpolated into SQL and must never be caller-supplied.
func (c *Client) Index(namespace string, dim int) *PgVectorIndex {
	return &PgVectorIndex{
		db:     c.db,
		table:  namespace,
		dim:    dim,
		logger: c.logger.With().Str("namespace", namespace).Logger(),
	}
}

// PgVectorIndex implements core.VectorIndex over one Postgres table with a
// vector(dim) embedding column and a jsonb metadata column.
type PgVectorIndex struct {
	db     *sql.DB
	table  string
	dim    int
	logger zerolog.Logger
}

var _ core.VectorIndex = (*PgVectorIndex)(nil)

func (x *PgVectorIndex) Namespace() string { return x.table }

// CreateSchema provisions the pgvector extension and the namespace table.
// Safe to call repeatedly.
func (x *PgVectorIndex) CreateSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id uuid PRIMARY KEY,
				metadata jsonb NOT NULL DEFAULT '{}'::jsonb,
				content text NOT NULL,
				embedding vector(%d) NOT NULL,
				created_at timestamptz NOT NULL DEFAULT now()
			)`, x.table, x.dim),
	}
	for _, q := range stmts {
		if _, err := x.db.ExecContext(ctx, q); err != nil {
			return &core.SchemaError{Namespace: x.table, Err: err}
		}
	}
	x.logger.Info().Msg("schema ready")
	return nil
}

// CreateIndex provisions the HNSW cosine index. The table must exist first.
func (x *PgVectorIndex) CreateIndex(ctx context.Context) error {
	q := fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)`,
		x.table, x.table)
	if _, err := x.db.ExecContext(ctx, q); err != nil {
		return &core.SchemaError{Namespace: x.table, Err: err}
	}
	x.logger.Info().Msg("similarity index ready")
	return nil
}

// Upsert writes the batch in a single transaction so the insert is
// all-or-nothing. Existing ids are overwritten.
func (x *PgVectorIndex) Upsert(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := x.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return &core.StoreWriteFailure{Namespace: x.table, BatchSize: len(chunks), Err: err}
	}

	q := fmt.Sprintf(`
		INSERT INTO %s (id, metadata, content, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			metadata = EXCLUDED.metadata,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding`, x.table)

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return &core.StoreWriteFailure{Namespace: x.table, BatchSize: len(chunks), Err: err}
	}
	defer stmt.Close()

	for i := range chunks {
		ch := &chunks[i]
		meta, err := json.Marshal(ch.Metadata)
		if err != nil {
			_ = tx.Rollback()
			return &core.StoreWriteFailure{Namespace: x.table, BatchSize: len(chunks), Err: err}
		}
		vec := pgvector.NewVector(ch.Embedding)
		if _, err := stmt.ExecContext(ctx, ch.ID, meta, ch.Content, vec); err != nil {
			_ = tx.Rollback()
			return &core.StoreWriteFailure{Namespace: x.table, BatchSize: len(chunks), Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &core.StoreWriteFailure{Namespace: x.table, BatchSize: len(chunks), Err: err}
	}
	x.logger.Info().Int("chunks", len(chunks)).Msg("upserted batch")
	return nil
}

// Search finds the limit nearest rows by cosine distance. The filter is a
// conjunctive equality match applied via jsonb containment, so a key that
// does not exist in a row's metadata simply matches nothing.
func (x *PgVectorIndex) Search(ctx context.Context, vector []float32, limit int, filter map[string]any) ([]core.Record, error) {
	vec := pgvector.NewVector(vector)

	var (
		rows *sql.Rows
		err  error
	)
	if len(filter) > 0 {
		f, merr := json.Marshal(filter)
		if merr != nil {
			return nil, fmt.Errorf("marshal metadata filter: %w", merr)
		}
		q := fmt.Sprintf(`
			SELECT id, metadata, content, embedding, embedding <=> $1 AS distance
			FROM %s
			WHERE metadata @> $2::jsonb
			ORDER BY embedding <=> $1
			LIMIT $3`, x.table)
		rows, err = x.db.QueryContext(ctx, q, vec, f, limit)
	} else {
		q := fmt.Sprintf(`
			SELECT id, metadata, content, embedding, embedding <=> $1 AS distance
			FROM %s
			ORDER BY embedding <=> $1
			LIMIT $2`, x.table)
		rows, err = x.db.QueryContext(ctx, q, vec, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", x.table, err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var (
			rec  core.Record
			id   uuid.UUID
			meta []byte
			emb  pgvector.Vector
		)
		if err := rows.Scan(&id, &meta, &rec.Content, &emb, &rec.Distance); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", x.table, err)
		}
		rec.ID = id
		rec.Embedding = emb.Slice()
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &rec.Metadata); err != nil {
				return nil, fmt.Errorf("decode %s metadata: %w", x.table, err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
