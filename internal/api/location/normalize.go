package location

import "strings"

const (
	minNameLen = 2
	maxNameLen = 49
)

// abbreviations maps common shorthand to the full city name. Keys are
// lower-case; matching happens after trimming.
var abbreviations = map[string]string{
	"nyc":    "New York",
	"ny":     "New York",
	"la":     "Los Angeles",
	"sf":     "San Francisco",
	"dc":     "Washington DC",
	"vegas":  "Las Vegas",
	"philly": "Philadelphia",
	"chi":    "Chicago",
}

// Normalize formats a raw candidate into a canonical city name: abbreviation
// expansion, title case per word, length bounds [2,50). Returns "" when the
// candidate cannot be a valid name, which callers treat as "no candidate".
func Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, ".,!?")
	if name == "" {
		return ""
	}
	if full, ok := abbreviations[strings.ToLower(name)]; ok {
		return full
	}

	words := strings.Fields(name)
	for i, word := range words {
		if len(word) == 2 && strings.ToUpper(word) == word && i == len(words)-1 {
			// Trailing state code stays upper, as in "Washington DC".
			words[i] = strings.ToUpper(word)
			continue
		}
		words[i] = titleWord(word)
	}
	name = strings.Join(words, " ")

	if len(name) < minNameLen {
		return ""
	}
	if len(name) > maxNameLen {
		name = strings.TrimSpace(name[:maxNameLen])
	}
	return name
}

func titleWord(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}
