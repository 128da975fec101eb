package location

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
)

// keywordRegions maps utterance substrings to a representative city, used
// before falling back to the rotation.
var keywordRegions = []struct {
	keyword string
	city    string
}{
	{"nyc", "New York"},
	{"new york", "New York"},
	{"east coast", "New York"},
	{"west coast", "Los Angeles"},
	{"california", "Los Angeles"},
	{"bay area", "San Francisco"},
	{"midwest", "Chicago"},
	{"texas", "Houston"},
	{"florida", "Miami"},
	{"london", "London"},
	{"uk", "London"},
	{"japan", "Tokyo"},
	{"tokyo", "Tokyo"},
	{"india", "Mumbai"},
	{"australia", "Sydney"},
}

// Rotation sets keyed by wall-clock hour so repeated fallback turns vary
// instead of always landing on the same city.
var (
	businessHourCities = []string{"New York", "London", "Tokyo", "Singapore", "Frankfurt"}
	eveningCities      = []string{"Las Vegas", "Miami", "Barcelona", "Sydney", "New Orleans"}
)

// HeuristicStrategy is the cascade's terminal stage: a keyword-to-region
// table, then an hour-of-day rotation. It always yields a validated
// candidate, which is what makes the resolver total.
type HeuristicStrategy struct {
	clock clockwork.Clock
}

// NewHeuristicStrategy builds the fallback stage. Tests inject a fake clock.
func NewHeuristicStrategy(clock clockwork.Clock) *HeuristicStrategy {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HeuristicStrategy{clock: clock}
}

func (s *HeuristicStrategy) Name() string { return "heuristic" }

func (s *HeuristicStrategy) Resolve(_ context.Context, utterance string, prev Candidate) (Candidate, error) {
	if prev.Validated {
		return prev, nil
	}

	lower := strings.ToLower(utterance)
	for _, entry := range keywordRegions {
		if strings.Contains(lower, entry.keyword) {
			return Candidate{Name: entry.city, Validated: true}, nil
		}
	}

	hour := s.clock.Now().Hour()
	cities := eveningCities
	if hour >= 9 && hour < 17 {
		cities = businessHourCities
	}
	return Candidate{Name: cities[hour%len(cities)], Validated: true}, nil
}
