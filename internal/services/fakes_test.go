package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// fakeIndex is an in-test VectorIndex returning canned records.
type fakeIndex struct {
	namespace string
	records   []core.Record
	err       error
	searches  int
}

func (f *fakeIndex) Namespace() string                       { return f.namespace }
func (f *fakeIndex) CreateSchema(ctx context.Context) error  { return f.err }
func (f *fakeIndex) CreateIndex(ctx context.Context) error   { return f.err }
func (f *fakeIndex) Upsert(ctx context.Context, chunks []models.Chunk) error {
	return f.err
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, limit int, filter map[string]any) ([]core.Record, error) {
	f.searches++
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

// rec builds a deterministic record for a given seed and distance.
func rec(seed byte, distance float64) core.Record {
	var id uuid.UUID
	id[0] = seed
	return core.Record{
		ID:       id,
		Content:  fmt.Sprintf("content-%d", seed),
		Distance: distance,
		Metadata: map[string]any{models.MetaCategory: "Shipping"},
	}
}

type fakeEmbedProvider struct {
	err error
}

func (f *fakeEmbedProvider) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

// fakeCompleter records whether it was invoked and returns a fixed response.
type fakeCompleter struct {
	calls    int
	messages []core.Message
	resp     *models.SynthesizedResponse
	err      error
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []core.Message, model string, temperature float64) (*models.SynthesizedResponse, error) {
	f.calls++
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeResolver struct {
	completer core.CompletionProvider
	err       error
}

func (f *fakeResolver) Completion(provider string) (core.CompletionProvider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.completer, nil
}
