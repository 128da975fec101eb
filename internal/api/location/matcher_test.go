package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPattern(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      string
	}{
		{"weather in phrase", "What's the weather in New York?", "New York"},
		{"show me phrase", "show me weather in Chicago", "Chicago"},
		{"city before weather", "Boston weather today", "Boston"},
		{"abbreviation before weather", "NYC weather please", "New York"},
		{"traveling phrase", "I'm traveling to Seattle next week", "Seattle"},
		{"city with state code", "How about Austin, TX this weekend", "Austin"},
		{"lowercase city after in", "whats the weather in miami", "Miami"},
		{"capitalized scan", "Anything happening around San Francisco lately", "San Francisco"},
		{"no location at all", "Hello there", "New York"},
		{"only stop words", "weather today please", "New York"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPattern(tt.utterance))
		})
	}
}

func TestExtractPatternIsTotal(t *testing.T) {
	for _, utterance := range []string{"", "???", "a", "the the the", "12345"} {
		got := ExtractPattern(utterance)
		assert.NotEmpty(t, got, "utterance %q", utterance)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"NYC", "New York"},
		{"la", "Los Angeles"},
		{"SF", "San Francisco"},
		{"dc", "Washington DC"},
		{"new york", "New York"},
		{"  cHicAgo  ", "Chicago"},
		{"washington DC", "Washington DC"},
		{"paris.", "Paris"},
		{"x", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.raw), "raw %q", tt.raw)
	}
}

func TestNormalizeBoundsLength(t *testing.T) {
	long := "Llanfairpwllgwyngyllgogerychwyrndrobwllllantysiliogogogoch City Name"
	got := Normalize(long)
	assert.NotEmpty(t, got)
	assert.Less(t, len(got), 50)
	assert.GreaterOrEqual(t, len(got), 2)
}
