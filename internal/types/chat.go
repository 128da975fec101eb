package types

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is what the rendering collaborator consumes: the routed
// intent, a short natural-language response, and (for weather turns) the
// per-location records. Degraded is true when any record came from the
// synthetic fallback rather than live data.
type ChatResponse struct {
	RequestID string          `json:"request_id"`
	Intent    Intent          `json:"intent"`
	Response  string          `json:"response"`
	Locations LocationSet     `json:"locations,omitempty"`
	Weather   []WeatherRecord `json:"weather,omitempty"`
	Degraded  bool            `json:"degraded"`
}
