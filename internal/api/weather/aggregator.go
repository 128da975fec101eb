package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-weather-chat/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-weather-chat/internal/api/generative_ai"
	"github.com/FACorreiaa/go-weather-chat/internal/api/locality"
	"github.com/FACorreiaa/go-weather-chat/internal/api/search"
	"github.com/FACorreiaa/go-weather-chat/internal/types"
)

const rawTextLimit = 800

var batchSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"records": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"city":        {Type: genai.TypeString},
					"country":     {Type: genai.TypeString},
					"temperature": {Type: genai.TypeInteger, Description: "Fahrenheit"},
					"condition":   {Type: genai.TypeString},
					"humidity":    {Type: genai.TypeInteger, Description: "percent, 0-100"},
					"windSpeed":   {Type: genai.TypeInteger, Description: "mph"},
				},
				Required: []string{"city", "temperature", "condition", "humidity", "windSpeed"},
			},
		},
	},
	Required: []string{"records"},
}

// Aggregator fetches and normalizes weather data for a LocationSet. Its one
// hard guarantee: exactly one record per requested location, whatever the
// upstreams do.
type Aggregator struct {
	search  search.Client
	ai      generativeAI.StructuredGenerator
	catalog *locality.Catalog
	logger  *slog.Logger
}

// NewAggregator builds an aggregator. ai may be nil; batched normalization
// is then skipped in favor of the deterministic parser.
func NewAggregator(searchClient search.Client, ai generativeAI.StructuredGenerator, catalog *locality.Catalog, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		search:  searchClient,
		ai:      ai,
		catalog: catalog,
		logger:  logger,
	}
}

// Aggregate returns the turn's AggregationResult: one record per location,
// index-aligned with locations, ids 1-based sequential. Degraded is true when
// at least one record came from the synthetic fallback. Intent is left for
// the orchestrator to fill in.
func (a *Aggregator) Aggregate(ctx context.Context, locations types.LocationSet) types.AggregationResult {
	rawTexts := a.fetchRawTexts(ctx, locations)

	// One slot per location; whichever stage succeeds first fills it.
	slots := make([]*types.WeatherRecord, len(locations))
	a.normalizeBatched(ctx, locations, rawTexts, slots)

	degraded := false
	records := make([]types.WeatherRecord, len(locations))
	for i, city := range locations {
		if slots[i] == nil && rawTexts[i] != "" {
			if parsed, ok := ParseObservation(rawTexts[i]); ok {
				parsed.City = city
				parsed.Country = a.catalog.Country(city)
				slots[i] = &parsed
			}
		}
		if slots[i] == nil {
			record := NewSyntheticRecord(city, a.catalog.Country(city))
			slots[i] = &record
			degraded = true
		}
		slots[i].ID = i + 1
		records[i] = *slots[i]
	}

	if degraded {
		a.logger.WarnContext(ctx, "Aggregation used synthetic fallback data",
			slog.Int("locations", len(locations)))
	}
	return types.AggregationResult{
		Locations: locations,
		Records:   records,
		Degraded:  degraded,
	}
}

// fetchRawTexts fans out one search per location. A failed search leaves an
// empty string in that location's slot and never disturbs the others.
func (a *Aggregator) fetchRawTexts(ctx context.Context, locations types.LocationSet) []string {
	rawTexts := make([]string, len(locations))
	g := new(errgroup.Group)
	for i, city := range locations {
		g.Go(func() error {
			query := fmt.Sprintf("%s current weather temperature humidity wind speed today", city)
			text, err := a.search.Search(ctx, query)
			if err != nil {
				a.logger.WarnContext(ctx, "Weather search failed for location",
					slog.String("city", city),
					slog.Any("error", err))
				metrics.RecordCapabilityError(ctx, "weather-search")
				return nil
			}
			rawTexts[i] = text
			return nil
		})
	}
	_ = g.Wait()
	return rawTexts
}

// normalizeBatched submits all collected raw texts in one structured
// completion and maps the returned entries back by city name. On capability
// failure nothing is filled and the per-location parser takes over.
func (a *Aggregator) normalizeBatched(ctx context.Context, locations types.LocationSet, rawTexts []string, slots []*types.WeatherRecord) {
	if a.ai == nil {
		return
	}
	var sections []string
	for i, city := range locations {
		if rawTexts[i] == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("City: %s\nSearch results: %s", city, truncate(rawTexts[i], rawTextLimit)))
	}
	if len(sections) == 0 {
		return
	}

	prompt := fmt.Sprintf(`Extract current weather for each city below from its search results.
Return JSON {"records": [...]} with exactly one entry per city, fields:
city, country, temperature (Fahrenheit integer), condition, humidity (0-100), windSpeed (mph).

%s`, strings.Join(sections, "\n\n"))

	var response struct {
		Records []struct {
			City        string `json:"city"`
			Country     string `json:"country"`
			Temperature int    `json:"temperature"`
			Condition   string `json:"condition"`
			Humidity    int    `json:"humidity"`
			WindSpeed   int    `json:"windSpeed"`
		} `json:"records"`
	}
	if err := a.ai.GenerateStructured(ctx, prompt, batchSchema, &response); err != nil {
		a.logger.WarnContext(ctx, "Batched weather normalization failed, using deterministic parser",
			slog.Any("error", err))
		metrics.RecordCapabilityError(ctx, "batch-normalization")
		return
	}

	for i, city := range locations {
		for _, entry := range response.Records {
			if !strings.EqualFold(strings.TrimSpace(entry.City), city) {
				continue
			}
			country := strings.TrimSpace(entry.Country)
			if country == "" {
				country = a.catalog.Country(city)
			}
			slots[i] = &types.WeatherRecord{
				City:        city,
				Country:     country,
				Temperature: entry.Temperature,
				Condition:   entry.Condition,
				Humidity:    clampPercent(entry.Humidity),
				WindSpeed:   max(entry.WindSpeed, 0),
				Icon:        IconFor(entry.Condition),
			}
			break
		}
	}
}

func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func truncate(str string, limit int) string {
	if len(str) <= limit {
		return str
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(str[cut]) {
		cut--
	}
	return str[:cut] + "..."
}
