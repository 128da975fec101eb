package location

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/genai"
)

// --- Mocks for Dependencies ---

type MockSearchClient struct {
	mock.Mock
}

func (m *MockSearchClient) Search(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

type MockStructuredGenerator struct {
	mock.Mock
}

func (m *MockStructuredGenerator) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	args := m.Called(ctx, prompt, schema, out)
	return args.Error(0)
}

// respondJSON fills the out argument of GenerateStructured from a payload.
func respondJSON(payload string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		_ = json.Unmarshal([]byte(payload), args.Get(3))
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fakeClockAtHour(hour int) clockwork.Clock {
	return clockwork.NewFakeClockAt(time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC))
}

func TestResolveLocationPatternThenValidation(t *testing.T) {
	searchClient := new(MockSearchClient)
	searchClient.On("Search", mock.Anything, "New York city weather").
		Return("New York is a city in the United States, weather updates and population figures", nil)

	resolver := NewResolver(nil, searchClient, NewHeuristicStrategy(fakeClockAtHour(10)), testLogger())

	got := resolver.ResolveLocation(context.Background(), "What's the weather in New York?", "")
	assert.Equal(t, "New York", got)
	searchClient.AssertExpectations(t)
}

func TestResolveLocationCompletionCandidateWins(t *testing.T) {
	ai := new(MockStructuredGenerator)
	ai.On("GenerateStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(respondJSON(`{"city": "Lisbon"}`)).
		Return(nil)

	searchClient := new(MockSearchClient)
	searchClient.On("Search", mock.Anything, "Lisbon city weather").
		Return("Lisbon city guide, weather and more", nil)

	resolver := NewResolver(ai, searchClient, NewHeuristicStrategy(fakeClockAtHour(10)), testLogger())

	got := resolver.ResolveLocation(context.Background(), "thinking of going somewhere sunny in portugal", "")
	assert.Equal(t, "Lisbon", got)
}

func TestResolveLocationCompletionUnknownFallsThrough(t *testing.T) {
	ai := new(MockStructuredGenerator)
	ai.On("GenerateStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(respondJSON(`{"city": "unknown"}`)).
		Return(nil)

	searchClient := new(MockSearchClient)
	// Validation of the pattern seed succeeds.
	searchClient.On("Search", mock.Anything, mock.MatchedBy(func(q string) bool {
		return strings.HasSuffix(q, "city weather")
	})).Return("Boston city weather conditions, located in Massachusetts", nil)

	resolver := NewResolver(ai, searchClient, NewHeuristicStrategy(fakeClockAtHour(10)), testLogger())

	got := resolver.ResolveLocation(context.Background(), "Boston weather today", "")
	assert.Equal(t, "Boston", got)
}

func TestResolveLocationDiscoveryAfterFailedValidation(t *testing.T) {
	searchClient := new(MockSearchClient)
	// Validation search returns nothing useful, discovery finds a city.
	searchClient.On("Search", mock.Anything, mock.MatchedBy(func(q string) bool {
		return strings.HasSuffix(q, "city weather")
	})).Return("no results", nil)
	searchClient.On("Search", mock.Anything, mock.MatchedBy(func(q string) bool {
		return strings.HasSuffix(q, "weather location city")
	})).Return("Top result: weather in Denver right now, 55 degrees", nil)

	resolver := NewResolver(nil, searchClient, NewHeuristicStrategy(fakeClockAtHour(10)), testLogger())

	got := resolver.ResolveLocation(context.Background(), "Denverish weather question", "")
	assert.Equal(t, "Denver", got)
}

func TestResolveLocationHeuristicKeyword(t *testing.T) {
	searchClient := new(MockSearchClient)
	searchClient.On("Search", mock.Anything, mock.Anything).Return("", errors.New("search down"))

	resolver := NewResolver(nil, searchClient, NewHeuristicStrategy(fakeClockAtHour(10)), testLogger())

	got := resolver.ResolveLocation(context.Background(), "how is the east coast looking", "")
	assert.Equal(t, "New York", got)
}

func TestResolveLocationHeuristicRotation(t *testing.T) {
	searchClient := new(MockSearchClient)
	searchClient.On("Search", mock.Anything, mock.Anything).Return("", errors.New("search down"))

	// Business hours rotate through one set, evenings through another.
	resolverAt := func(hour int) string {
		r := NewResolver(nil, searchClient, NewHeuristicStrategy(fakeClockAtHour(hour)), testLogger())
		return r.ResolveLocation(context.Background(), "hmm", "")
	}

	assert.Equal(t, "New York", resolverAt(10)) // businessHourCities[10%5]
	assert.Equal(t, "Las Vegas", resolverAt(20)) // eveningCities[20%5]
	assert.NotEqual(t, resolverAt(10), resolverAt(11))
}

func TestResolveLocationSeedSkipsExtraction(t *testing.T) {
	ai := new(MockStructuredGenerator)
	searchClient := new(MockSearchClient)
	searchClient.On("Search", mock.Anything, "Paris city weather").
		Return("Paris, the capital city of France, weather forecast", nil)

	resolver := NewResolver(ai, searchClient, NewHeuristicStrategy(fakeClockAtHour(10)), testLogger())

	got := resolver.ResolveLocation(context.Background(), "what about over there", "paris")
	assert.Equal(t, "Paris", got)
	// Seeded turns never touch the extraction model.
	ai.AssertNotCalled(t, "GenerateStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveLocationAlwaysWellFormed(t *testing.T) {
	searchClient := new(MockSearchClient)
	searchClient.On("Search", mock.Anything, mock.Anything).Return("", errors.New("search down"))

	ai := new(MockStructuredGenerator)
	ai.On("GenerateStructured", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("model down"))

	resolver := NewResolver(ai, searchClient, NewHeuristicStrategy(fakeClockAtHour(3)), testLogger())

	utterances := []string{
		"", "???", "weather", "Hello there", "NYC weather please",
		"what is the meaning of life", "show me weather in tokyo",
	}
	for _, utterance := range utterances {
		got := resolver.ResolveLocation(context.Background(), utterance, "")
		assert.GreaterOrEqual(t, len(got), 2, "utterance %q", utterance)
		assert.Less(t, len(got), 50, "utterance %q", utterance)
		for _, word := range strings.Fields(got) {
			first := word[0]
			assert.Truef(t, first >= 'A' && first <= 'Z', "word %q of %q not title-cased", word, got)
		}
	}
}

func TestHeuristicKeepsValidatedCandidate(t *testing.T) {
	heuristic := NewHeuristicStrategy(fakeClockAtHour(12))
	prev := Candidate{Name: "Oslo", Validated: true}
	got, err := heuristic.Resolve(context.Background(), "whatever", prev)
	assert.NoError(t, err)
	assert.Equal(t, prev, got)
}
