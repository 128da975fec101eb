package locality

import (
	"fmt"
	"strings"
)

// Catalog holds the static locality tables: known primary cities with their
// related localities, region membership, per-region defaults, and a small
// city-to-country table. It is built once at startup and read-only after.
type Catalog struct {
	related     map[string][]string
	cityRegions map[string]string
	regions     map[string][]string
	countries   map[string]string
}

// NewCatalog returns the default catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		related: map[string][]string{
			"new york":      {"Brooklyn", "Jersey City", "Newark", "Stamford"},
			"los angeles":   {"Santa Monica", "Pasadena", "Long Beach", "Burbank"},
			"san francisco": {"Oakland", "Berkeley", "San Jose", "Palo Alto"},
			"chicago":       {"Evanston", "Naperville", "Oak Park", "Schaumburg"},
			"washington dc": {"Arlington", "Alexandria", "Bethesda", "Silver Spring"},
			"miami":         {"Fort Lauderdale", "Coral Gables", "Hollywood", "Boca Raton"},
			"houston":       {"Sugar Land", "Pasadena", "The Woodlands", "Katy"},
			"seattle":       {"Bellevue", "Tacoma", "Redmond", "Everett"},
			"boston":        {"Cambridge", "Somerville", "Quincy", "Newton"},
			"london":        {"Croydon", "Watford", "Richmond", "Greenwich"},
			"paris":         {"Versailles", "Boulogne", "Saint-Denis", "Creteil"},
			"tokyo":         {"Yokohama", "Kawasaki", "Chiba", "Saitama"},
			"singapore":     {"Johor Bahru", "Batam", "Sentosa", "Woodlands"},
			"sydney":        {"Parramatta", "Newcastle", "Wollongong", "Penrith"},
			"mumbai":        {"Thane", "Navi Mumbai", "Pune", "Kalyan"},
			"delhi":         {"Gurgaon", "Noida", "Faridabad", "Ghaziabad"},
			"chennai":       {"Coimbatore", "Madurai", "Pondicherry", "Vellore"},
			"las vegas":     {"Henderson", "Paradise", "Boulder City", "Summerlin"},
			"barcelona":     {"Badalona", "Sabadell", "Terrassa", "Girona"},
			"frankfurt":     {"Offenbach", "Darmstadt", "Wiesbaden", "Mainz"},
		},
		cityRegions: map[string]string{
			"new york":      "north-america",
			"los angeles":   "north-america",
			"san francisco": "north-america",
			"chicago":       "north-america",
			"washington dc": "north-america",
			"miami":         "north-america",
			"houston":       "north-america",
			"seattle":       "north-america",
			"boston":        "north-america",
			"las vegas":     "north-america",
			"toronto":       "north-america",
			"london":        "europe",
			"paris":         "europe",
			"barcelona":     "europe",
			"frankfurt":     "europe",
			"berlin":        "europe",
			"madrid":        "europe",
			"rome":          "europe",
			"tokyo":         "asia",
			"singapore":     "asia",
			"mumbai":        "asia",
			"delhi":         "asia",
			"chennai":       "asia",
			"seoul":         "asia",
			"bangkok":       "asia",
			"sydney":        "oceania",
			"melbourne":     "oceania",
		},
		regions: map[string][]string{
			"north-america": {"Chicago", "Boston", "Seattle", "Miami"},
			"europe":        {"London", "Paris", "Berlin", "Madrid"},
			"asia":          {"Tokyo", "Singapore", "Seoul", "Bangkok"},
			"oceania":       {"Sydney", "Melbourne", "Auckland", "Brisbane"},
			"global":        {"New York", "London", "Tokyo", "Sydney"},
		},
		countries: map[string]string{
			"new york":      "USA",
			"brooklyn":      "USA",
			"los angeles":   "USA",
			"san francisco": "USA",
			"chicago":       "USA",
			"washington dc": "USA",
			"miami":         "USA",
			"houston":       "USA",
			"seattle":       "USA",
			"boston":        "USA",
			"las vegas":     "USA",
			"london":        "UK",
			"paris":         "France",
			"barcelona":     "Spain",
			"madrid":        "Spain",
			"berlin":        "Germany",
			"frankfurt":     "Germany",
			"rome":          "Italy",
			"tokyo":         "Japan",
			"yokohama":      "Japan",
			"singapore":     "Singapore",
			"seoul":         "South Korea",
			"bangkok":       "Thailand",
			"mumbai":        "India",
			"delhi":         "India",
			"chennai":       "India",
			"sydney":        "Australia",
			"melbourne":     "Australia",
		},
	}
}

// Validate checks the configuration invariants the pipeline depends on:
// every table non-empty and a usable global default list. Called once at
// startup; a failure here is the only fatal error in the pipeline.
func (c *Catalog) Validate() error {
	if len(c.related) == 0 {
		return fmt.Errorf("locality catalog has no related-city entries")
	}
	if len(c.regions) == 0 {
		return fmt.Errorf("locality catalog has no region defaults")
	}
	if len(c.regions["global"]) == 0 {
		return fmt.Errorf("locality catalog has no global default cities")
	}
	for region, cities := range c.regions {
		if len(cities) == 0 {
			return fmt.Errorf("region %q has an empty default city list", region)
		}
	}
	return nil
}

// Related returns the catalog's related localities for a primary city, or
// nil when the city is unknown.
func (c *Catalog) Related(city string) []string {
	return c.related[strings.ToLower(city)]
}

// Region returns the region a city belongs to, defaulting to "global".
func (c *Catalog) Region(city string) string {
	if region, ok := c.cityRegions[strings.ToLower(city)]; ok {
		return region
	}
	return "global"
}

// RegionDefaults returns the default city list for a region.
func (c *Catalog) RegionDefaults(region string) []string {
	if cities, ok := c.regions[region]; ok {
		return cities
	}
	return c.regions["global"]
}

// Country resolves a city to its country, defaulting to "Unknown".
func (c *Catalog) Country(city string) string {
	if country, ok := c.countries[strings.ToLower(city)]; ok {
		return country
	}
	return "Unknown"
}
