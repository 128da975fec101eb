package weather

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-weather-chat/internal/types"
)

const (
	defaultHumidity  = 50
	defaultWindSpeed = 8
	// Values below this are assumed Celsius and converted to Fahrenheit.
	celsiusThreshold = 50
)

// Ordered temperature patterns; the first numeric group wins.
var temperaturePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(-?\d+)\s*°\s*[CF]`),
	regexp.MustCompile(`(?i)(-?\d+)\s*degrees?`),
	regexp.MustCompile(`(?i)(-?\d+)\s*fahrenheit`),
	regexp.MustCompile(`(?i)(-?\d+)\s*celsius`),
}

var humidityPattern = regexp.MustCompile(`(?i)humidity[:\s]*(\d{1,3})`)

// Ordered wind patterns; first match wins and the value is carried through
// as mph regardless of the source unit.
var windPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)wind[:\s]*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*mph`),
	regexp.MustCompile(`(?i)(\d+)\s*km/?h`),
}

// Condition keyword precedence: storm outranks rain outranks cloud outranks
// sun. The order here is load-bearing.
var conditionRules = []struct {
	keywords  []string
	condition string
	icon      string
}{
	{[]string{"storm", "thunder"}, "Stormy", types.IconRainy},
	{[]string{"rain", "shower", "drizzle", "wet"}, "Rainy", types.IconRainy},
	{[]string{"cloud", "overcast", "fog", "mist"}, "Cloudy", types.IconCloudy},
	{[]string{"sunny", "clear", "bright"}, "Sunny", types.IconSunny},
}

// ParseObservation scans raw search text for weather facts. It succeeds only
// when a temperature is present; humidity and wind fall back to neutral
// defaults, condition always derives from keywords.
func ParseObservation(raw string) (types.WeatherRecord, bool) {
	temperature, ok := parseTemperature(raw)
	if !ok {
		return types.WeatherRecord{}, false
	}

	condition, icon := ClassifyCondition(raw)
	return types.WeatherRecord{
		Temperature: temperature,
		Condition:   condition,
		Icon:        icon,
		Humidity:    parseHumidity(raw),
		WindSpeed:   parseWind(raw),
	}, true
}

func parseTemperature(raw string) (int, bool) {
	for _, pattern := range temperaturePatterns {
		match := pattern.FindStringSubmatch(raw)
		if len(match) < 2 {
			continue
		}
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if value < celsiusThreshold {
			value = int(math.Round(float64(value)*9.0/5.0 + 32.0))
		}
		return value, true
	}
	return 0, false
}

func parseHumidity(raw string) int {
	match := humidityPattern.FindStringSubmatch(raw)
	if len(match) < 2 {
		return defaultHumidity
	}
	value, err := strconv.Atoi(match[1])
	if err != nil || value > 100 {
		return defaultHumidity
	}
	return value
}

func parseWind(raw string) int {
	for _, pattern := range windPatterns {
		match := pattern.FindStringSubmatch(raw)
		if len(match) < 2 {
			continue
		}
		value, err := strconv.Atoi(match[1])
		if err != nil || value < 0 {
			continue
		}
		return value
	}
	return defaultWindSpeed
}

// ClassifyCondition maps free text to a (condition, icon) pair using the
// keyword precedence table. Unmatched text is "Partly Cloudy".
func ClassifyCondition(raw string) (string, string) {
	lower := strings.ToLower(raw)
	for _, rule := range conditionRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.condition, rule.icon
			}
		}
	}
	return "Partly Cloudy", types.IconCloudy
}

// IconFor returns the icon class consistent with a condition string.
func IconFor(condition string) string {
	_, icon := ClassifyCondition(condition)
	return icon
}
