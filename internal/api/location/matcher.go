package location

import (
	"regexp"
	"strings"
)

// DefaultCity is returned when nothing in the utterance looks like a place.
const DefaultCity = "New York"

// Ordered extraction templates. The first surviving match wins, so the more
// specific phrasings come first.
var extractionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)show\s+me\s+(?:the\s+)?weather\s+(?:in|for|at)\s+([a-zA-Z][a-zA-Z\s]*?)(?:[?.!,]|$)`),
	regexp.MustCompile(`(?i)weather\s+(?:in|for|at)\s+([a-zA-Z][a-zA-Z\s]*?)(?:[?.!,]|$)`),
	regexp.MustCompile(`(?i:travell?ing\s+to)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
	regexp.MustCompile(`([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)\s*,\s*[A-Z]{2}\b`),
	regexp.MustCompile(`(?i)([a-zA-Z][a-zA-Z\s]*?)\s+weather`),
	regexp.MustCompile(`\b(?i:in)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`),
}

// stopWords are tokens a pattern capture must not consist of.
var stopWords = map[string]bool{
	"weather":     true,
	"the":         true,
	"today":       true,
	"tomorrow":    true,
	"now":         true,
	"current":     true,
	"currently":   true,
	"forecast":    true,
	"temperature": true,
	"please":      true,
	"there":       true,
	"here":        true,
	"outside":     true,
	"like":        true,
	"me":          true,
	"my":          true,
	"city":        true,
	"this":        true,
	"next":        true,
	"week":        true,
	"weekend":     true,
	"tonight":     true,
	"morning":     true,
	"evening":     true,
}

// sentenceStarters is the denylist for the capitalized-token fallback scan.
var sentenceStarters = map[string]bool{
	"what":      true,
	"whats":     true,
	"show":      true,
	"tell":      true,
	"give":      true,
	"how":       true,
	"is":        true,
	"can":       true,
	"could":     true,
	"will":      true,
	"does":      true,
	"do":        true,
	"i":         true,
	"the":       true,
	"hello":     true,
	"hi":        true,
	"hey":       true,
	"anything":  true,
	"something": true,
	"please":    true,
}

// ExtractPattern pulls a location name out of an utterance using regex
// templates, then a capitalized-token scan, then the fixed default. It is
// total: every input yields a usable city name.
func ExtractPattern(utterance string) string {
	for _, pattern := range extractionPatterns {
		match := pattern.FindStringSubmatch(utterance)
		if len(match) < 2 {
			continue
		}
		if candidate := filterCandidate(match[1]); candidate != "" {
			return candidate
		}
	}

	if candidate := scanCapitalized(utterance); candidate != "" {
		return candidate
	}
	return DefaultCity
}

// filterCandidate drops stop-words from a raw capture and normalizes what
// survives. Returns "" when nothing usable remains.
func filterCandidate(raw string) string {
	var kept []string
	for _, word := range strings.Fields(raw) {
		if stopWords[strings.ToLower(strings.Trim(word, ".,!?"))] {
			continue
		}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		return ""
	}
	return Normalize(strings.Join(kept, " "))
}

// scanCapitalized looks for runs of capitalized words, skipping sentence
// starters and stop-words.
func scanCapitalized(utterance string) string {
	words := strings.Fields(utterance)
	var run []string
	for _, word := range words {
		cleaned := strings.Trim(word, ".,!?")
		lower := strings.ToLower(cleaned)
		isCapitalized := cleaned != "" && cleaned[0] >= 'A' && cleaned[0] <= 'Z'
		if isCapitalized && !stopWords[lower] && !sentenceStarters[lower] {
			run = append(run, cleaned)
			continue
		}
		if len(run) > 0 {
			break
		}
	}
	if len(run) == 0 {
		return ""
	}
	return Normalize(strings.Join(run, " "))
}
