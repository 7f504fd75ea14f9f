package llm

import (
	"context"
	"fmt"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/config"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
)

// Factory resolves Settings.Provider names to constructed providers.
// Providers are built once at startup for every configured API key.
type Factory struct {
	embedders  map[string]core.EmbeddingProvider
	completers map[string]core.CompletionProvider
	closers    []func() error
}

func NewFactory(ctx context.Context, cfg *config.Config) (*Factory, error) {
	f := &Factory{
		embedders:  make(map[string]core.EmbeddingProvider),
		completers: make(map[string]core.CompletionProvider),
	}

	if cfg.OpenAIKey != "" {
		f.embedders["openai"] = NewOpenAIEmbedder(cfg.OpenAIKey, cfg.EmbedModel)
		f.completers["openai"] = NewOpenAICompleter(cfg.OpenAIKey)
	}
	if cfg.GeminiKey != "" {
		emb, err := NewGeminiEmbedder(ctx, cfg.GeminiKey, "")
		if err != nil {
			return nil, fmt.Errorf("init gemini embedder: %w", err)
		}
		cmp, err := NewGeminiCompleter(ctx, cfg.GeminiKey)
		if err != nil {
			return nil, fmt.Errorf("init gemini completer: %w", err)
		}
		f.embedders["gemini"] = emb
		f.completers["gemini"] = cmp
		f.closers = append(f.closers, emb.Close, cmp.Close)
	}

	if len(f.embedders) == 0 {
		return nil, fmt.Errorf("no AI provider configured: set OPENAI_API_KEY or GEMINI_API_KEY")
	}
	return f, nil
}

// Embedding returns the raw embedding provider for the named provider.
func (f *Factory) Embedding(provider string) (core.EmbeddingProvider, error) {
	p, ok := f.embedders[provider]
	if !ok {
		return nil, fmt.Errorf("embedding provider %q not configured", provider)
	}
	return p, nil
}

// Completion returns the completion provider for the named provider.
func (f *Factory) Completion(provider string) (core.CompletionProvider, error) {
	p, ok := f.completers[provider]
	if !ok {
		return nil, fmt.Errorf("completion provider %q not configured", provider)
	}
	return p, nil
}

func (f *Factory) Close() error {
	var first error
	for _, c := range f.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
