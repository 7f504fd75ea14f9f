package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core/llm"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

func newTestSession(faq *fakeIndex, completer *fakeCompleter) *Session {
	embedder := llm.NewEmbedder(&fakeEmbedProvider{}, zerolog.Nop())
	fuser := newTestFuser(faq, &fakeIndex{}, &fakeIndex{})
	synth := NewSynthesizer(&fakeResolver{completer: completer})
	return NewSession(models.DefaultSettings(), embedder, fuser, synth, zerolog.Nop())
}

func TestExecuteQuery_EmptyContextShortCircuit(t *testing.T) {
	completer := &fakeCompleter{resp: &models.SynthesizedResponse{Answer: "should not be used"}}
	s := newTestSession(&fakeIndex{}, completer)

	record := s.ExecuteQuery(context.Background(), "what is the return policy?")

	if completer.calls != 0 {
		t.Fatalf("completion capability invoked %d times on empty context, want 0", completer.calls)
	}
	if record.Response == nil {
		t.Fatal("expected a canned response")
	}
	if record.Response.EnoughContext {
		t.Fatal("expected enough_context=false on empty context")
	}
	if record.Response.Answer != "No relevant information found." {
		t.Fatalf("unexpected canned answer: %q", record.Response.Answer)
	}
	if len(s.History()) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(s.History()))
	}
}

func TestExecuteQuery_SynthesizesOverFusedResults(t *testing.T) {
	faq := &fakeIndex{records: []core.Record{rec(1, 0.1), rec(2, 0.2)}}
	completer := &fakeCompleter{
		resp: &models.SynthesizedResponse{
			Answer:         "Returns are accepted within 30 days.",
			ThoughtProcess: []string{"matched the returns FAQ"},
			EnoughContext:  true,
		},
	}
	s := newTestSession(faq, completer)

	record := s.ExecuteQuery(context.Background(), "what is the return policy?")

	if record.Error != "" {
		t.Fatalf("unexpected recorded error: %s", record.Error)
	}
	if completer.calls != 1 {
		t.Fatalf("expected 1 completion call, got %d", completer.calls)
	}
	if len(record.Results) != 2 {
		t.Fatalf("expected 2 fused results on the record, got %d", len(record.Results))
	}
	if !record.Response.EnoughContext {
		t.Fatal("enough_context must be surfaced unmodified")
	}

	// Synthesis contract payloads: system, user, assistant.
	if len(completer.messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(completer.messages))
	}
	roles := []string{core.RoleSystem, core.RoleUser, core.RoleAssistant}
	for i, want := range roles {
		if completer.messages[i].Role != want {
			t.Fatalf("message %d role = %s, want %s", i, completer.messages[i].Role, want)
		}
	}
}

func TestExecuteQuery_SynthesisFailureKeepsResults(t *testing.T) {
	faq := &fakeIndex{records: []core.Record{rec(1, 0.1)}}
	completer := &fakeCompleter{err: errors.New("rate limited")}
	s := newTestSession(faq, completer)

	record := s.ExecuteQuery(context.Background(), "anything")

	if record.Error == "" {
		t.Fatal("expected the synthesis failure to be recorded")
	}
	if len(record.Results) != 1 {
		t.Fatal("fused results must survive a synthesis failure")
	}
	if len(s.History()) != 1 {
		t.Fatal("failed queries must still be appended to history")
	}
}

func TestExecuteQuery_RetrievalFailureRecorded(t *testing.T) {
	boom := errors.New("db down")
	embedder := llm.NewEmbedder(&fakeEmbedProvider{}, zerolog.Nop())
	fuser := newTestFuser(&fakeIndex{err: boom}, &fakeIndex{err: boom}, &fakeIndex{err: boom})
	s := NewSession(models.DefaultSettings(), embedder, fuser, NewSynthesizer(&fakeResolver{}), zerolog.Nop())

	record := s.ExecuteQuery(context.Background(), "anything")

	if record.Error == "" {
		t.Fatal("expected a recorded retrieval failure")
	}
	if record.Response != nil {
		t.Fatal("no response should be synthesized after total retrieval failure")
	}
	if len(s.History()) != 1 {
		t.Fatal("the failed query must be in history")
	}
}

func TestExecuteQuery_EmbeddingFailureRecorded(t *testing.T) {
	embedder := llm.NewEmbedder(&fakeEmbedProvider{err: errors.New("401")}, zerolog.Nop())
	fuser := newTestFuser(&fakeIndex{}, &fakeIndex{}, &fakeIndex{})
	s := NewSession(models.DefaultSettings(), embedder, fuser, NewSynthesizer(&fakeResolver{}), zerolog.Nop())

	record := s.ExecuteQuery(context.Background(), "anything")
	if record.Error == "" {
		t.Fatal("expected a recorded embedding failure")
	}
}

func TestSession_SettingsSnapshotPerQuery(t *testing.T) {
	faq := &fakeIndex{records: []core.Record{rec(1, 0.1)}}
	completer := &fakeCompleter{resp: &models.SynthesizedResponse{Answer: "ok", EnoughContext: true}}
	s := newTestSession(faq, completer)

	settings := s.Settings()
	settings.SourceType = models.SourceFAQ
	settings.Limit = 2
	if err := s.UpdateSettings(settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := s.ExecuteQuery(context.Background(), "q")
	if record.Settings.SourceType != models.SourceFAQ || record.Settings.Limit != 2 {
		t.Fatalf("record did not capture the settings snapshot: %+v", record.Settings)
	}
}

func TestExecuteQuery_SavesRecordToOutputFile(t *testing.T) {
	faq := &fakeIndex{records: []core.Record{rec(1, 0.1)}}
	completer := &fakeCompleter{resp: &models.SynthesizedResponse{Answer: "ok", EnoughContext: true}}
	s := newTestSession(faq, completer)

	outPath := filepath.Join(t.TempDir(), "results.json")
	settings := s.Settings()
	settings.SaveResults = true
	settings.OutputFile = outPath
	if err := s.UpdateSettings(settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.ExecuteQuery(context.Background(), "what is the return policy?")

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("record was not written: %v", err)
	}
	var saved models.QueryRecord
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("saved record is not valid JSON: %v", err)
	}
	if saved.Query != "what is the return policy?" {
		t.Fatalf("saved record query = %q", saved.Query)
	}
	if saved.Response == nil || saved.Response.Answer != "ok" {
		t.Fatalf("saved record is missing the response: %+v", saved)
	}
}

// gateCompleter parks inside Complete until released, so a test can hold one
// query mid-synthesis.
type gateCompleter struct {
	entered chan struct{}
	release chan struct{}
	resp    *models.SynthesizedResponse
}

func (g *gateCompleter) Complete(ctx context.Context, messages []core.Message, model string, temperature float64) (*models.SynthesizedResponse, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.resp, nil
}

func TestSession_OneQueryInFlight(t *testing.T) {
	faq := &fakeIndex{records: []core.Record{rec(1, 0.1)}}
	completer := &gateCompleter{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
		resp:    &models.SynthesizedResponse{Answer: "ok", EnoughContext: true},
	}
	embedder := llm.NewEmbedder(&fakeEmbedProvider{}, zerolog.Nop())
	fuser := newTestFuser(faq, &fakeIndex{}, &fakeIndex{})
	s := NewSession(models.DefaultSettings(), embedder, fuser, NewSynthesizer(&fakeResolver{completer: completer}), zerolog.Nop())

	first := make(chan struct{})
	go func() {
		s.ExecuteQuery(context.Background(), "first")
		close(first)
	}()
	<-completer.entered // first query is now parked mid-synthesis

	second := make(chan struct{})
	go func() {
		s.ExecuteQuery(context.Background(), "second")
		close(second)
	}()

	// While the first query is in flight the second must not reach any
	// pipeline stage, let alone finish.
	select {
	case <-completer.entered:
		t.Fatal("second query reached synthesis while the first was in flight")
	case <-second:
		t.Fatal("second query finished while the first was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(completer.release)
	<-first
	<-second

	history := s.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(history))
	}
	if history[0].Query != "first" || history[1].Query != "second" {
		t.Fatalf("queries executed out of order: %q, %q", history[0].Query, history[1].Query)
	}
}

func TestSession_UpdateSettingsValidation(t *testing.T) {
	s := newTestSession(&fakeIndex{}, &fakeCompleter{})

	bad := models.DefaultSettings()
	bad.Limit = 0
	if err := s.UpdateSettings(bad); err == nil {
		t.Fatal("expected rejection of non-positive limit")
	}

	bad = models.DefaultSettings()
	bad.SourceType = "wiki"
	if err := s.UpdateSettings(bad); err == nil {
		t.Fatal("expected rejection of unknown source type")
	}
}
