package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/llm"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// Session executes queries end-to-end with user-configurable settings and
// records history. One query runs at a time per session: a new ExecuteQuery
// call waits until the prior one reaches a terminal state. Settings mutation
// between queries takes effect on the next call only (the running query works
// on a snapshot).
type Session struct {
	execMu  sync.Mutex // serializes query execution
	stateMu sync.Mutex // guards settings and history

	settings models.Settings
	history  []models.QueryRecord

	embedder *llm.Embedder
	fuser    *Fuser
	synth    *Synthesizer
	logger   zerolog.Logger
}

func NewSession(settings models.Settings, embedder *llm.Embedder, fuser *Fuser, synth *Synthesizer, logger zerolog.Logger) *Session {
	if settings.Limit <= 0 {
		settings = models.DefaultSettings()
	}
	return &Session{
		settings: settings,
		embedder: embedder,
		fuser:    fuser,
		synth:    synth,
		logger:   logger.With().Str("component", "session").Logger(),
	}
}

// Settings returns a copy of the current settings.
func (s *Session) Settings() models.Settings {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.settings
}

// UpdateSettings replaces the session settings. In-flight executions keep
// their own snapshot and are unaffected.
func (s *Session) UpdateSettings(settings models.Settings) error {
	if settings.Limit <= 0 {
		return fmt.Errorf("result limit must be positive, got %d", settings.Limit)
	}
	if settings.SourceType != "" && !models.ValidSource(settings.SourceType) {
		return fmt.Errorf("unknown source type %q", settings.SourceType)
	}
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.settings = settings
	return nil
}

// History returns a copy of the accumulated query records.
func (s *Session) History() []models.QueryRecord {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	out := make([]models.QueryRecord, len(s.history))
	copy(out, s.history)
	return out
}

// ExecuteQuery runs one query through embed -> fuse -> synthesize and appends
// a QueryRecord in every case. Failures are captured into the record's error
// field rather than raised; callers above the session decide whether to
// surface them.
func (s *Session) ExecuteQuery(ctx context.Context, query string) models.QueryRecord {
	s.execMu.Lock()
	defer s.execMu.Unlock()

	settings := s.Settings() // copy-on-start snapshot

	record := models.QueryRecord{
		Query:     query,
		Timestamp: time.Now().UTC(),
		Settings:  settings,
	}

	// The save-targeting fields write every finished record, failed ones
	// included, to the configured output file.
	defer func() {
		if !settings.SaveResults || settings.OutputFile == "" {
			return
		}
		if err := writeRecord(settings.OutputFile, record); err != nil {
			s.logger.Warn().Err(err).Str("path", settings.OutputFile).Msg("could not save query record")
		}
	}()

	sources := models.AllSources()
	if settings.SourceType != "" {
		sources = []models.SourceType{settings.SourceType}
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		record.Error = err.Error()
		s.append(record)
		return record
	}

	results, err := s.fuser.Fuse(ctx, vec, sources, settings.Limit, settings.MetadataFilter)
	if err != nil {
		record.Error = err.Error()
		s.append(record)
		return record
	}
	record.Results = results

	if len(results) == 0 {
		// Cost-control policy: never pay for a completion call on empty
		// context.
		record.Response = NoContextResponse()
		s.append(record)
		return record
	}

	resp, err := s.synth.Synthesize(ctx, query, results, settings)
	if err != nil {
		// The fused results stay on the record so a partial answer is not
		// lost.
		record.Error = err.Error()
		s.append(record)
		return record
	}
	record.Response = resp

	s.logger.Info().
		Str("query", query).
		Int("results", len(results)).
		Bool("enough_context", resp.EnoughContext).
		Msg("query executed")
	s.append(record)
	return record
}

func (s *Session) append(record models.QueryRecord) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.history = append(s.history, record)
}

// writeRecord saves one query record to the path named by the save-targeting
// settings fields.
func writeRecord(path string, record models.QueryRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode query record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write query record %s: %w", path, err)
	}
	return nil
}

// SaveHistory writes the whole history to path in one shot.
func (s *Session) SaveHistory(path string) error {
	history := s.History()
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write history %s: %w", path, err)
	}
	s.logger.Info().Str("path", path).Int("records", len(history)).Msg("history saved")
	return nil
}
