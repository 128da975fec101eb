package generativeAI

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// StructuredGenerator is the structured-completion capability: prompt plus a
// response schema in, typed object out. Callers must treat errors as "no
// data" and fall back; the capability is never retried automatically.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error
}

// Ensure implementation satisfies the interface
var _ StructuredGenerator = (*AIClient)(nil)

// AIClient wraps the Gemini client behind the StructuredGenerator contract.
type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewAIClient creates a Gemini-backed client. The API key comes from the
// GOOGLE_GEMINI_API_KEY environment variable.
func NewAIClient(ctx context.Context, model string, temperature float32) (*AIClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewAIClient")
	defer span.End()

	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		err := fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, err
	}

	if model == "" {
		model = defaultModel
	}
	span.SetStatus(codes.Ok, "AI client created successfully")
	return &AIClient{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

// GenerateStructured sends one prompt with a JSON response schema and
// unmarshals the model's reply into out. A reply wrapped in markdown fences
// is unwrapped before parsing.
func (ai *AIClient) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateStructured", trace.WithAttributes(
		attribute.Int("prompt.length", len(prompt)),
		attribute.String("model", ai.model),
	))
	defer span.End()

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(ai.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return fmt.Errorf("failed to generate content: %w", err)
	}

	txt := result.Text()
	if txt == "" {
		err := fmt.Errorf("no valid content in model response")
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty response")
		return err
	}

	jsonStr := strings.TrimSpace(txt)
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimSuffix(jsonStr, "```")
	if err := json.Unmarshal([]byte(jsonStr), out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unmarshal failed")
		return fmt.Errorf("failed to parse model JSON: %w", err)
	}

	span.SetStatus(codes.Ok, "structured generation succeeded")
	return nil
}
