package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-weather-chat/internal/types"
)

func TestParseObservationCelsiusConversion(t *testing.T) {
	record, ok := ParseObservation("Currently 22°C with an approaching storm front")
	require.True(t, ok)
	assert.Equal(t, 72, record.Temperature) // 22C -> 71.6F, rounded half up
	assert.Equal(t, "Stormy", record.Condition)
	assert.Equal(t, types.IconRainy, record.Icon)
}

func TestParseObservationFahrenheitKept(t *testing.T) {
	record, ok := ParseObservation("Sunny skies, 75°F, humidity: 40, wind: 12 mph")
	require.True(t, ok)
	assert.Equal(t, 75, record.Temperature)
	assert.Equal(t, "Sunny", record.Condition)
	assert.Equal(t, types.IconSunny, record.Icon)
	assert.Equal(t, 40, record.Humidity)
	assert.Equal(t, 12, record.WindSpeed)
}

func TestParseObservationDegreesWord(t *testing.T) {
	record, ok := ParseObservation("it is about 18 degrees and overcast today")
	require.True(t, ok)
	assert.Equal(t, 64, record.Temperature) // 18C -> 64.4F -> 64
	assert.Equal(t, "Cloudy", record.Condition)
	assert.Equal(t, types.IconCloudy, record.Icon)
}

func TestParseObservationWindUnitsCarriedAsMph(t *testing.T) {
	// km/h values pass through unconverted.
	record, ok := ParseObservation("80 fahrenheit, clear, 25 km/h breeze")
	require.True(t, ok)
	assert.Equal(t, 25, record.WindSpeed)
}

func TestParseObservationWindFirstMatchWins(t *testing.T) {
	record, ok := ParseObservation("65°F wind: 7 also gusts of 30 mph reported")
	require.True(t, ok)
	assert.Equal(t, 7, record.WindSpeed)
}

func TestParseObservationDefaults(t *testing.T) {
	record, ok := ParseObservation("a mild 70°F afternoon")
	require.True(t, ok)
	assert.Equal(t, defaultHumidity, record.Humidity)
	assert.Equal(t, defaultWindSpeed, record.WindSpeed)
	assert.Equal(t, "Partly Cloudy", record.Condition)
	assert.Equal(t, types.IconCloudy, record.Icon)
}

func TestParseObservationNoTemperature(t *testing.T) {
	_, ok := ParseObservation("lovely day, not a cloud in sight")
	assert.False(t, ok)
}

func TestClassifyConditionPrecedence(t *testing.T) {
	tests := []struct {
		text      string
		condition string
		icon      string
	}{
		{"thunderstorm with heavy rain", "Stormy", types.IconRainy}, // storm beats rain
		{"rain showers and some clouds", "Rainy", types.IconRainy},  // rain beats cloud
		{"overcast but bright spells", "Cloudy", types.IconCloudy},  // cloud beats sun
		{"clear and sunny", "Sunny", types.IconSunny},
		{"light drizzle", "Rainy", types.IconRainy},
		{"fog banks rolling in", "Cloudy", types.IconCloudy},
		{"nothing to report", "Partly Cloudy", types.IconCloudy},
	}
	for _, tt := range tests {
		condition, icon := ClassifyCondition(tt.text)
		assert.Equalf(t, tt.condition, condition, "text %q", tt.text)
		assert.Equalf(t, tt.icon, icon, "text %q", tt.text)
	}
}

func TestIconConsistentWithCondition(t *testing.T) {
	// Round-trip: every condition string maps back to its own icon.
	for _, tt := range []struct {
		condition string
		icon      string
	}{
		{"Stormy", types.IconRainy},
		{"Rainy", types.IconRainy},
		{"Cloudy", types.IconCloudy},
		{"Partly Cloudy", types.IconCloudy},
		{"Sunny", types.IconSunny},
	} {
		assert.Equal(t, tt.icon, IconFor(tt.condition), "condition %q", tt.condition)
	}
}

func TestNewSyntheticRecordRanges(t *testing.T) {
	for i := 0; i < 200; i++ {
		record := NewSyntheticRecord("Chennai", "India")
		assert.Equal(t, "Chennai", record.City)
		assert.Equal(t, "India", record.Country)
		assert.GreaterOrEqual(t, record.Temperature, 60)
		assert.LessOrEqual(t, record.Temperature, 90)
		assert.GreaterOrEqual(t, record.Humidity, 40)
		assert.LessOrEqual(t, record.Humidity, 80)
		assert.GreaterOrEqual(t, record.WindSpeed, 5)
		assert.LessOrEqual(t, record.WindSpeed, 20)
		assert.Equal(t, IconFor(record.Condition), record.Icon)
	}
}
