package types

import "strings"

// Intent is the coarse category of a user message the pipeline routes on.
type Intent string

const (
	IntentWeather Intent = "weather"
	IntentGeneral Intent = "general"
	IntentNews    Intent = "news"
	IntentSports  Intent = "sports"
	IntentFinance Intent = "finance"
)

// ParseIntent maps a raw string to a known Intent. Unknown values become
// IntentGeneral rather than an error so a misbehaving model response can
// never break classification.
func ParseIntent(raw string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case IntentWeather:
		return IntentWeather
	case IntentNews:
		return IntentNews
	case IntentSports:
		return IntentSports
	case IntentFinance:
		return IntentFinance
	default:
		return IntentGeneral
	}
}

// Routed returns the intent the orchestrator actually branches on. Only
// weather has a dedicated branch today; news, sports and finance degrade to
// the general branch.
func (i Intent) Routed() Intent {
	if i == IntentWeather {
		return IntentWeather
	}
	return IntentGeneral
}

// Classification is the structured output of the intent classifier. City and
// Topic are best-effort entity extractions and may be empty.
type Classification struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	City       string  `json:"city"`
	Topic      string  `json:"topic"`
}
