package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// GeminiEmbedder implements core.EmbeddingProvider via the Gemini
// embedding API.
type GeminiEmbedder struct {
	client    *genai.Client
	modelName string
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string) (*GeminiEmbedder, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "text-embedding-004"
	}
	return &GeminiEmbedder{client: cl, modelName: modelName}, nil
}

func (g *GeminiEmbedder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	em := g.client.EmbeddingModel(g.modelName)
	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini embed: empty embedding in response")
	}
	return resp.Embedding.Values, nil
}

var _ core.EmbeddingProvider = (*GeminiEmbedder)(nil)

// GeminiCompleter implements core.CompletionProvider using a JSON response
// schema matching the synthesis contract.
type GeminiCompleter struct {
	client *genai.Client
}

func NewGeminiCompleter(ctx context.Context, apiKey string) (*GeminiCompleter, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiCompleter{client: cl}, nil
}

func (g *GeminiCompleter) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, messages []core.Message, model string, temperature float64) (*models.SynthesizedResponse, error) {
	m := g.client.GenerativeModel(model)
	m.SetTemperature(float32(temperature))
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"answer":          {Type: genai.TypeString},
			"thought_process": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"enough_context":  {Type: genai.TypeBoolean},
		},
		Required: []string{"answer", "thought_process", "enough_context"},
	}

	// Gemini has no assistant-seeded context slot; the system message maps to
	// the system instruction and the remaining messages are concatenated into
	// one prompt in order.
	var prompt strings.Builder
	for _, msg := range messages {
		if msg.Role == core.RoleSystem {
			m.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(msg.Content)},
			}
			continue
		}
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n\n")
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		return nil, fmt.Errorf("gemini completion: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini completion: no candidates returned")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	var out models.SynthesizedResponse
	if err := json.Unmarshal([]byte(b.String()), &out); err != nil {
		return nil, fmt.Errorf("gemini completion: decode structured response: %w", err)
	}
	return &out, nil
}

var _ core.CompletionProvider = (*GeminiCompleter)(nil)
