package locality

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSearchClient struct {
	mock.Mock
}

func (m *MockSearchClient) Search(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestExpandLocationsCatalogHit(t *testing.T) {
	searchClient := new(MockSearchClient)
	expander := NewExpander(NewCatalog(), searchClient, testLogger())

	set := expander.ExpandLocations(context.Background(), "Chennai")

	assert.Equal(t, "Chennai", set.Primary())
	assert.Len(t, set, 5)
	assert.Contains(t, set, "Coimbatore")
	// Known cities never hit the network.
	searchClient.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestExpandLocationsIdempotent(t *testing.T) {
	searchClient := new(MockSearchClient)
	expander := NewExpander(NewCatalog(), searchClient, testLogger())

	first := expander.ExpandLocations(context.Background(), "Chennai")
	second := expander.ExpandLocations(context.Background(), "Chennai")
	assert.Equal(t, first, second)
}

func TestExpandLocationsCatalogIsCaseInsensitive(t *testing.T) {
	expander := NewExpander(NewCatalog(), new(MockSearchClient), testLogger())

	set := expander.ExpandLocations(context.Background(), "cHeNNai")
	assert.Len(t, set, 5)
}

func TestExpandLocationsDynamicDiscovery(t *testing.T) {
	searchClient := new(MockSearchClient)
	searchClient.On("Search", mock.Anything, "cities near Springfield metropolitan area").
		Return("Cities near Springfield including Shelbyville, close to Ogdenville and such as North Haverbrook", nil)

	expander := NewExpander(NewCatalog(), searchClient, testLogger())
	set := expander.ExpandLocations(context.Background(), "Springfield")

	assert.Equal(t, "Springfield", set.Primary())
	assert.GreaterOrEqual(t, len(set), 2)
	assert.LessOrEqual(t, len(set), 5)
	assert.False(t, set.Contains(""), "no empty entries")
	searchClient.AssertExpectations(t)
}

func TestExpandLocationsBackfillOnSearchFailure(t *testing.T) {
	searchClient := new(MockSearchClient)
	searchClient.On("Search", mock.Anything, mock.Anything).Return("", errors.New("search down"))

	expander := NewExpander(NewCatalog(), searchClient, testLogger())
	set := expander.ExpandLocations(context.Background(), "Ulaanbaatar")

	// Region defaults (global) backfill to the full five.
	require.Len(t, set, 5)
	assert.Equal(t, "Ulaanbaatar", set.Primary())
	assert.Contains(t, set, "London")
}

func TestExpandLocationsNoDuplicates(t *testing.T) {
	searchClient := new(MockSearchClient)
	// Discovery keeps echoing the primary and one neighbor.
	searchClient.On("Search", mock.Anything, mock.Anything).
		Return("near Reykjavik, near Reykjavik, including Kopavogur, including Kopavogur", nil)

	expander := NewExpander(NewCatalog(), searchClient, testLogger())
	set := expander.ExpandLocations(context.Background(), "Reykjavik")

	seen := map[string]bool{}
	for _, city := range set {
		key := strings.ToLower(city)
		assert.Falsef(t, seen[key], "duplicate entry %q", city)
		seen[key] = true
	}
}

func TestCatalogValidate(t *testing.T) {
	assert.NoError(t, NewCatalog().Validate())

	broken := &Catalog{
		related: map[string][]string{"x": {"y"}},
		regions: map[string][]string{"global": {}},
	}
	assert.Error(t, broken.Validate())
}

func TestCatalogCountry(t *testing.T) {
	catalog := NewCatalog()
	assert.Equal(t, "India", catalog.Country("Chennai"))
	assert.Equal(t, "USA", catalog.Country("new york"))
	assert.Equal(t, "Unknown", catalog.Country("Atlantis"))
}

func TestCatalogRegion(t *testing.T) {
	catalog := NewCatalog()
	assert.Equal(t, "asia", catalog.Region("Tokyo"))
	assert.Equal(t, "global", catalog.Region("Atlantis"))
}
