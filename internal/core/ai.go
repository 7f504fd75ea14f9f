package core

import (
	"context"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// Message is one role-tagged message in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// EmbeddingProvider is the raw text-to-vector capability. Implementations do
// no preprocessing; that is the Embedder wrapper's job.
type EmbeddingProvider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// CompletionProvider turns an ordered message list into a structured
// synthesized response.
type CompletionProvider interface {
	Complete(ctx context.Context, messages []Message, model string, temperature float64) (*models.SynthesizedResponse, error)
}
