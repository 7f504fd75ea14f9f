package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
)

type fakeProvider struct {
	lastText string
	vec      []float32
	err      error
}

func (f *fakeProvider) EmbedText(ctx context.Context, text string) ([]float32, error) {
	f.lastText = text
	return f.vec, f.err
}

func TestEmbedder_ReplacesNewlinesOnly(t *testing.T) {
	p := &fakeProvider{vec: []float32{1, 2, 3}}
	e := NewEmbedder(p, zerolog.Nop())

	vec, err := e.Embed(context.Background(), "  Line one\nLine two\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3-dim vector, got %d", len(vec))
	}

	// Newlines become spaces; leading whitespace and casing are untouched.
	if p.lastText != "  Line one Line two " {
		t.Fatalf("provider received %q", p.lastText)
	}
}

func TestEmbedder_WrapsFailure(t *testing.T) {
	cause := errors.New("provider down")
	e := NewEmbedder(&fakeProvider{err: cause}, zerolog.Nop())

	_, err := e.Embed(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected an error")
	}

	var ef *core.EmbeddingFailure
	if !errors.As(err, &ef) {
		t.Fatalf("expected EmbeddingFailure, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected the provider error to be wrapped")
	}
}
