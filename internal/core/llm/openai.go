package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/core"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// OpenAIEmbedder implements core.EmbeddingProvider via the OpenAI
// embeddings API.
type OpenAIEmbedder struct {
	client    openai.Client
	modelName string
}

func NewOpenAIEmbedder(apiKey, modelName string) *OpenAIEmbedder {
	if modelName == "" {
		modelName = "text-embedding-3-small"
	}
	return &OpenAIEmbedder{
		client:    openai.NewClient(option.WithAPIKey(apiKey)),
		modelName: modelName,
	}
}

func (o *OpenAIEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(o.modelName),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai embed: empty embedding in response")
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

var _ core.EmbeddingProvider = (*OpenAIEmbedder)(nil)

// OpenAICompleter implements core.CompletionProvider with a json_schema
// response format so the model always returns the synthesized-response shape.
type OpenAICompleter struct {
	client openai.Client
}

func NewOpenAICompleter(apiKey string) *OpenAICompleter {
	return &OpenAICompleter{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

// synthesizedResponseSchema constrains the completion output to the three
// required fields of the synthesis contract.
var synthesizedResponseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"answer": map[string]any{
			"type":        "string",
			"description": "The synthesized answer to the user's question",
		},
		"thought_process": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Short reasoning steps taken to reach the answer",
		},
		"enough_context": map[string]any{
			"type":        "boolean",
			"description": "Whether the retrieved context was sufficient",
		},
	},
	"required":             []string{"answer", "thought_process", "enough_context"},
	"additionalProperties": false,
}

func (o *OpenAICompleter) Complete(ctx context.Context, messages []core.Message, model string, temperature float64) (*models.SynthesizedResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Temperature: openai.Float(temperature),
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "synthesized_response",
					Strict: openai.Bool(true),
					Schema: synthesizedResponseSchema,
				},
			},
		},
	}
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case core.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai completion: no choices returned")
	}

	var out models.SynthesizedResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, fmt.Errorf("openai completion: decode structured response: %w", err)
	}
	return &out, nil
}

var _ core.CompletionProvider = (*OpenAICompleter)(nil)
