package location

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-weather-chat/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-weather-chat/internal/api/generative_ai"
	"github.com/FACorreiaa/go-weather-chat/internal/api/search"
)

// Candidate is the unit passed between resolver strategies: a best-effort
// city name and whether a later stage has confirmed it.
type Candidate struct {
	Name      string
	Validated bool
}

// Strategy is one stage of the resolution cascade. A strategy may promote,
// replace, or discard the previous candidate; errors mean "no candidate from
// this stage" and never abort the cascade.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, utterance string, prev Candidate) (Candidate, error)
}

// Resolver runs the strategy cascade until a validated candidate appears.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewResolver wires the default cascade: pattern extraction, model
// extraction, search validation, search discovery, and the heuristic
// fallback (which always produces a validated candidate).
func NewResolver(ai generativeAI.StructuredGenerator, searchClient search.Client, heuristic *HeuristicStrategy, logger *slog.Logger) *Resolver {
	return &Resolver{
		strategies: []Strategy{
			&PatternStrategy{},
			&CompletionStrategy{ai: ai},
			&SearchValidationStrategy{search: searchClient},
			&SearchDiscoveryStrategy{search: searchClient},
			heuristic,
		},
		logger: logger,
	}
}

// ResolveLocation produces one best-effort city name for the utterance. A
// non-empty seed (usually the classifier's extracted city) skips the two
// extraction stages and goes straight to validation. The returned name is
// always non-empty and normalized.
func (r *Resolver) ResolveLocation(ctx context.Context, utterance, seed string) string {
	var candidate Candidate
	start := 0
	if normalized := Normalize(seed); normalized != "" {
		candidate = Candidate{Name: normalized}
		start = 2
	}

	for _, strategy := range r.strategies[start:] {
		next, err := strategy.Resolve(ctx, utterance, candidate)
		if err != nil {
			r.logger.WarnContext(ctx, "Resolver strategy failed, continuing cascade",
				slog.String("strategy", strategy.Name()),
				slog.Any("error", err))
			metrics.RecordCapabilityError(ctx, strategy.Name())
			continue
		}
		candidate = next
		if candidate.Validated && candidate.Name != "" {
			r.logger.DebugContext(ctx, "Location resolved",
				slog.String("strategy", strategy.Name()),
				slog.String("city", candidate.Name))
			return candidate.Name
		}
	}

	// The heuristic stage always validates, so reaching here means the
	// cascade was constructed without it. Fall back to the pattern default.
	if candidate.Name != "" {
		return candidate.Name
	}
	return DefaultCity
}

// PatternStrategy seeds the cascade with the regex matcher's output. The
// result is cheap and total but low confidence, so it is never validated.
type PatternStrategy struct{}

func (s *PatternStrategy) Name() string { return "pattern" }

func (s *PatternStrategy) Resolve(_ context.Context, utterance string, _ Candidate) (Candidate, error) {
	return Candidate{Name: ExtractPattern(utterance)}, nil
}

const unknownSentinel = "unknown"

// CompletionStrategy asks the model to extract a single city name. The
// sentinel "unknown" or any capability failure keeps the previous candidate.
type CompletionStrategy struct {
	ai generativeAI.StructuredGenerator
}

func (s *CompletionStrategy) Name() string { return "completion" }

var citySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"city": {Type: genai.TypeString, Description: "A single normalized city name, or \"unknown\""},
	},
	Required: []string{"city"},
}

func (s *CompletionStrategy) Resolve(ctx context.Context, utterance string, prev Candidate) (Candidate, error) {
	if s.ai == nil {
		return prev, nil
	}
	prompt := fmt.Sprintf(`Extract the city the user is asking about from this message: %q.
Respond with a JSON object {"city": "..."} containing exactly one normalized city name
(e.g. "New York", not "NYC"). If no city is mentioned, use the string "unknown".`, utterance)

	var extracted struct {
		City string `json:"city"`
	}
	if err := s.ai.GenerateStructured(ctx, prompt, citySchema, &extracted); err != nil {
		return prev, fmt.Errorf("city extraction failed: %w", err)
	}
	if strings.EqualFold(strings.TrimSpace(extracted.City), unknownSentinel) {
		return prev, nil
	}
	if name := Normalize(extracted.City); name != "" {
		return Candidate{Name: name}, nil
	}
	return prev, nil
}

// cityIndicators are words whose co-occurrence with a candidate in search
// results confirms it names a real place.
var cityIndicators = []string{"city", "weather", "located", "population"}

// SearchValidationStrategy confirms the current candidate by searching for
// it and checking for city-indicative co-occurrence. A failed confirmation
// discards the candidate so later stages start fresh.
type SearchValidationStrategy struct {
	search search.Client
}

func (s *SearchValidationStrategy) Name() string { return "search-validation" }

func (s *SearchValidationStrategy) Resolve(ctx context.Context, _ string, prev Candidate) (Candidate, error) {
	if prev.Name == "" {
		return prev, nil
	}
	results, err := s.search.Search(ctx, fmt.Sprintf("%s city weather", prev.Name))
	if err != nil {
		return Candidate{}, fmt.Errorf("validation search failed: %w", err)
	}

	lower := strings.ToLower(results)
	if !strings.Contains(lower, strings.ToLower(prev.Name)) {
		return Candidate{}, nil
	}
	for _, indicator := range cityIndicators {
		if strings.Contains(lower, indicator) {
			return Candidate{Name: prev.Name, Validated: true}, nil
		}
	}
	return Candidate{}, nil
}

// Secondary patterns for pulling a city-shaped token out of discovery
// search results.
var discoveryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:weather\s+(?:in|for))\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)`),
	regexp.MustCompile(`([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)\s+(?i:(?:current\s+)?weather)`),
	regexp.MustCompile(`(?i:city\s+of)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)`),
}

// SearchDiscoveryStrategy runs a broader search over the whole utterance
// and extracts a city-shaped token from the results.
type SearchDiscoveryStrategy struct {
	search search.Client
}

func (s *SearchDiscoveryStrategy) Name() string { return "search-discovery" }

func (s *SearchDiscoveryStrategy) Resolve(ctx context.Context, utterance string, prev Candidate) (Candidate, error) {
	if prev.Validated {
		return prev, nil
	}
	results, err := s.search.Search(ctx, fmt.Sprintf("%s weather location city", utterance))
	if err != nil {
		return prev, fmt.Errorf("discovery search failed: %w", err)
	}

	for _, pattern := range discoveryPatterns {
		match := pattern.FindStringSubmatch(results)
		if len(match) < 2 {
			continue
		}
		if name := filterCandidate(match[1]); name != "" {
			return Candidate{Name: name, Validated: true}, nil
		}
	}
	return prev, nil
}
