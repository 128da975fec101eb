package locality

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/FACorreiaa/go-weather-chat/internal/api/search"
	"github.com/FACorreiaa/go-weather-chat/internal/types"
)

const (
	maxRelated      = 4
	minDynamicFound = 3
)

// Patterns for pulling neighboring-city names out of discovery results.
var nearbyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:near|nearby|close to)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)`),
	regexp.MustCompile(`(?i:including|such as)\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)`),
	regexp.MustCompile(`([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)\s+metropolitan`),
}

// Expander turns a primary city into a bounded LocationSet: catalog lookup
// first, then dynamic discovery through search, then region defaults.
type Expander struct {
	catalog *Catalog
	search  search.Client
	logger  *slog.Logger
}

// NewExpander builds a locality expander over the given catalog.
func NewExpander(catalog *Catalog, searchClient search.Client, logger *slog.Logger) *Expander {
	return &Expander{
		catalog: catalog,
		search:  searchClient,
		logger:  logger,
	}
}

// ExpandLocations returns the primary city plus up to four related ones,
// primary first, no case-insensitive duplicates. The result always has
// between 1 and 5 entries.
func (e *Expander) ExpandLocations(ctx context.Context, primary string) types.LocationSet {
	set := types.LocationSet{primary}

	if known := e.catalog.Related(primary); len(known) > 0 {
		for _, city := range known {
			set = appendUnique(set, city)
		}
		return set
	}

	discovered := e.discover(ctx, primary)
	for _, city := range discovered {
		set = appendUnique(set, city)
	}

	if len(set)-1 < minDynamicFound {
		region := e.catalog.Region(primary)
		for _, city := range e.catalog.RegionDefaults(region) {
			if len(set)-1 >= maxRelated {
				break
			}
			set = appendUnique(set, city)
		}
	}
	return set
}

// discover searches for cities around the primary and extracts candidates
// via the nearby patterns. Failures yield an empty slice, never an error.
func (e *Expander) discover(ctx context.Context, primary string) []string {
	results, err := e.search.Search(ctx, fmt.Sprintf("cities near %s metropolitan area", primary))
	if err != nil {
		e.logger.WarnContext(ctx, "Locality discovery search failed, falling back to region defaults",
			slog.String("primary", primary),
			slog.Any("error", err))
		return nil
	}

	var found []string
	for _, pattern := range nearbyPatterns {
		for _, match := range pattern.FindAllStringSubmatch(results, -1) {
			if len(match) < 2 {
				continue
			}
			found = append(found, match[1])
			if len(found) >= maxRelated {
				return found
			}
		}
	}
	return found
}

func appendUnique(set types.LocationSet, city string) types.LocationSet {
	if city == "" || set.Contains(city) || len(set)-1 >= maxRelated {
		return set
	}
	return append(set, city)
}
