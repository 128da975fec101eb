package types

// Icon classes understood by the rendering layer.
const (
	IconSunny  = "sunny"
	IconCloudy = "cloudy"
	IconRainy  = "rainy"
)

// WeatherRecord is one normalized per-city observation. Temperature is
// Fahrenheit, WindSpeed is mph, Humidity is an integer percent.
type WeatherRecord struct {
	ID          int    `json:"id"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	Humidity    int    `json:"humidity"`
	WindSpeed   int    `json:"windSpeed"`
	Icon        string `json:"icon"`
}

// AggregationResult is the pipeline's output for one weather turn: the
// resolved locations with exactly one record per location, index-aligned.
type AggregationResult struct {
	Intent    Intent          `json:"intent"`
	Locations LocationSet     `json:"locations"`
	Records   []WeatherRecord `json:"records"`
	Degraded  bool            `json:"degraded"`
}
