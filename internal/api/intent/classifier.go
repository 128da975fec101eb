package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-weather-chat/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-weather-chat/internal/api/generative_ai"
	"github.com/FACorreiaa/go-weather-chat/internal/types"
)

// Classifier determines what a user message is asking for.
type Classifier interface {
	Classify(ctx context.Context, utterance string) types.Classification
}

// Ensure implementation satisfies the interface
var _ Classifier = (*ClassifierImpl)(nil)

// Keyword fallback set used when the completion capability is unavailable.
var weatherKeywords = []string{
	"weather", "temperature", "forecast", "climate", "sunny",
	"rainy", "cloudy", "cold", "hot", "degrees",
}

var classificationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"intent": {
			Type: genai.TypeString,
			Enum: []string{"weather", "general", "news", "sports", "finance"},
		},
		"confidence": {Type: genai.TypeNumber},
		"extractedEntities": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"city":  {Type: genai.TypeString},
				"topic": {Type: genai.TypeString},
			},
		},
	},
	Required: []string{"intent", "confidence"},
}

// ClassifierImpl classifies through structured completion, with a
// deterministic keyword fallback when the capability fails. The capability
// gets exactly one attempt per turn.
type ClassifierImpl struct {
	ai     generativeAI.StructuredGenerator
	logger *slog.Logger
}

// NewClassifier creates a classifier. ai may be nil, in which case only the
// keyword fallback runs.
func NewClassifier(ai generativeAI.StructuredGenerator, logger *slog.Logger) *ClassifierImpl {
	return &ClassifierImpl{ai: ai, logger: logger}
}

// Classify never fails: a completion error degrades to keyword matching.
func (c *ClassifierImpl) Classify(ctx context.Context, utterance string) types.Classification {
	if c.ai != nil {
		classification, err := c.classifyWithModel(ctx, utterance)
		if err == nil {
			return classification
		}
		c.logger.WarnContext(ctx, "Intent classification via model failed, using keyword fallback",
			slog.Any("error", err))
		metrics.RecordCapabilityError(ctx, "classification")
	}
	return classifyByKeywords(utterance)
}

func (c *ClassifierImpl) classifyWithModel(ctx context.Context, utterance string) (types.Classification, error) {
	prompt := fmt.Sprintf(`Classify the intent of this user message: %q.
Intent must be one of: weather, general, news, sports, finance.
Also extract any city and topic mentioned. Respond as JSON:
{"intent": "...", "confidence": 0.0-1.0, "extractedEntities": {"city": "...", "topic": "..."}}`, utterance)

	var raw struct {
		Intent            string  `json:"intent"`
		Confidence        float64 `json:"confidence"`
		ExtractedEntities struct {
			City  string `json:"city"`
			Topic string `json:"topic"`
		} `json:"extractedEntities"`
	}
	if err := c.ai.GenerateStructured(ctx, prompt, classificationSchema, &raw); err != nil {
		return types.Classification{}, fmt.Errorf("classification completion failed: %w", err)
	}

	return types.Classification{
		Intent:     types.ParseIntent(raw.Intent),
		Confidence: raw.Confidence,
		City:       strings.TrimSpace(raw.ExtractedEntities.City),
		Topic:      strings.TrimSpace(raw.ExtractedEntities.Topic),
	}, nil
}

func classifyByKeywords(utterance string) types.Classification {
	lower := strings.ToLower(utterance)
	for _, keyword := range weatherKeywords {
		if strings.Contains(lower, keyword) {
			return types.Classification{Intent: types.IntentWeather, Confidence: 0.6}
		}
	}
	return types.Classification{Intent: types.IntentGeneral, Confidence: 0.5}
}
