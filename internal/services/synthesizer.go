package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// contextMetadataKeys is the whitelist of metadata fields serialized into the
// synthesis context. Everything else stays out to bound prompt size.
var contextMetadataKeys = []string{
	models.MetaCategory,
	models.MetaFilename,
	models.MetaFiletype,
}

// CompleterResolver maps a provider name from Settings to a completion
// provider.
type CompleterResolver interface {
	Completion(provider string) (core.CompletionProvider, error)
}

// Synthesizer builds the completion payload from fused context and hands it
// to the configured provider.
type Synthesizer struct {
	resolver CompleterResolver
}

func NewSynthesizer(resolver CompleterResolver) *Synthesizer {
	return &Synthesizer{resolver: resolver}
}

// BuildMessages assembles the three ordered messages of the synthesis
// contract: system instruction, the literal user question, and the
// serialized fused context in an assistant-role message.
func BuildMessages(query string, results models.ResultSet, systemPrompt string) ([]core.Message, error) {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	contextJSON, err := ContextJSON(results)
	if err != nil {
		return nil, err
	}
	return []core.Message{
		{Role: core.RoleSystem, Content: systemPrompt},
		{Role: core.RoleUser, Content: fmt.Sprintf("# User question:\n%s", query)},
		{Role: core.RoleAssistant, Content: fmt.Sprintf("# Retrieved information:\n%s", contextJSON)},
	}, nil
}

// ContextJSON serializes the fused results down to content plus whitelisted
// metadata fields.
func ContextJSON(results models.ResultSet) (string, error) {
	rows := make([]map[string]any, 0, len(results))
	for _, r := range results {
		row := map[string]any{"content": r.Content}
		for _, key := range contextMetadataKeys {
			if v, ok := r.Metadata[key]; ok {
				row[key] = v
			}
		}
		rows = append(rows, row)
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("serialize context: %w", err)
	}
	return string(b), nil
}

// Synthesize runs the completion call for one query over the fused result
// set. Provider errors surface as *core.SynthesisFailure; the caller keeps
// the fused results either way.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, results models.ResultSet, settings models.Settings) (*models.SynthesizedResponse, error) {
	messages, err := BuildMessages(query, results, settings.SystemPrompt)
	if err != nil {
		return nil, &core.SynthesisFailure{Err: err}
	}

	completer, err := s.resolver.Completion(settings.Provider)
	if err != nil {
		return nil, &core.SynthesisFailure{Err: err}
	}

	resp, err := completer.Complete(ctx, messages, settings.Model, settings.Temperature)
	if err != nil {
		return nil, &core.SynthesisFailure{Err: err}
	}
	return resp, nil
}

// NoContextResponse is the canned reply used when fusion returns nothing.
// The completion capability is never invoked on empty context.
func NoContextResponse() *models.SynthesizedResponse {
	return &models.SynthesizedResponse{
		Answer:         "No relevant information found.",
		ThoughtProcess: []string{"No matching documents found in the selected sources."},
		EnoughContext:  false,
	}
}
