package weather

import (
	"math/rand"

	"github.com/FACorreiaa/go-weather-chat/internal/types"
)

// Condition pool for synthetic records, icons pre-matched to conditions.
var syntheticConditions = []struct {
	condition string
	icon      string
}{
	{"Sunny", types.IconSunny},
	{"Partly Cloudy", types.IconCloudy},
	{"Cloudy", types.IconCloudy},
	{"Rainy", types.IconRainy},
}

// NewSyntheticRecord produces a plausible placeholder when no real data is
// obtainable: temperature in [60,90]°F, humidity in [40,80]%, wind in
// [5,20] mph, condition drawn from the pool.
func NewSyntheticRecord(city, country string) types.WeatherRecord {
	pick := syntheticConditions[rand.Intn(len(syntheticConditions))]
	return types.WeatherRecord{
		City:        city,
		Country:     country,
		Temperature: 60 + rand.Intn(31),
		Humidity:    40 + rand.Intn(41),
		WindSpeed:   5 + rand.Intn(16),
		Condition:   pick.condition,
		Icon:        pick.icon,
	}
}
