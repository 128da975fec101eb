package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-weather-chat/app/observability/metrics"
	"github.com/FACorreiaa/go-weather-chat/internal/api/intent"
	"github.com/FACorreiaa/go-weather-chat/internal/api/locality"
	"github.com/FACorreiaa/go-weather-chat/internal/api/location"
	"github.com/FACorreiaa/go-weather-chat/internal/api/weather"
	"github.com/FACorreiaa/go-weather-chat/internal/types"
)

// State names the orchestrator's positions. One turn always walks
// Start -> Classifying -> one branch -> Done; there are no retries across
// branches and no state survives the turn.
type State string

const (
	StateStart         State = "start"
	StateClassifying   State = "classifying"
	StateWeatherBranch State = "weather_branch"
	StateGeneralBranch State = "general_branch"
	StateDone          State = "done"
)

// PipelineService defines the business logic contract for one chat turn.
type PipelineService interface {
	ProcessTurn(ctx context.Context, message string) *types.ChatResponse
}

// Ensure implementation satisfies the interface
var _ PipelineService = (*PipelineServiceImpl)(nil)

// PipelineServiceImpl owns the turn state machine and the failure policy:
// every collaborator below it degrades instead of failing, so ProcessTurn
// itself never returns an error.
type PipelineServiceImpl struct {
	classifier intent.Classifier
	resolver   *location.Resolver
	expander   *locality.Expander
	aggregator *weather.Aggregator
	metrics    *metrics.AppMetrics
	logger     *slog.Logger
}

// NewPipelineService creates a new pipeline service instance. appMetrics may
// be nil (tests).
func NewPipelineService(
	classifier intent.Classifier,
	resolver *location.Resolver,
	expander *locality.Expander,
	aggregator *weather.Aggregator,
	appMetrics *metrics.AppMetrics,
	logger *slog.Logger) *PipelineServiceImpl {
	return &PipelineServiceImpl{
		classifier: classifier,
		resolver:   resolver,
		expander:   expander,
		aggregator: aggregator,
		metrics:    appMetrics,
		logger:     logger,
	}
}

// turnState is the per-invocation scratch space; nothing in it outlives the
// turn.
type turnState struct {
	message        string
	classification types.Classification
	response       *types.ChatResponse
}

// ProcessTurn runs one utterance through the state machine and always
// produces a renderable response.
func (s *PipelineServiceImpl) ProcessTurn(ctx context.Context, message string) *types.ChatResponse {
	start := time.Now()
	turn := &turnState{
		message:  message,
		response: &types.ChatResponse{RequestID: uuid.New().String()},
	}

	state := StateStart
	for state != StateDone {
		switch state {
		case StateStart:
			state = StateClassifying
		case StateClassifying:
			turn.classification = s.classifier.Classify(ctx, message)
			turn.response.Intent = turn.classification.Intent.Routed()
			if turn.response.Intent == types.IntentWeather {
				state = StateWeatherBranch
			} else {
				state = StateGeneralBranch
			}
		case StateWeatherBranch:
			s.runWeatherBranch(ctx, turn)
			state = StateDone
		case StateGeneralBranch:
			s.runGeneralBranch(turn)
			state = StateDone
		}
	}

	s.recordTurn(ctx, turn, time.Since(start))
	return turn.response
}

// runWeatherBranch resolves, expands and aggregates. The classifier's
// extracted city, when present, seeds the resolver and short-circuits its
// extraction stages.
func (s *PipelineServiceImpl) runWeatherBranch(ctx context.Context, turn *turnState) {
	primary := s.resolver.ResolveLocation(ctx, turn.message, turn.classification.City)
	locations := s.expander.ExpandLocations(ctx, primary)

	result := s.aggregator.Aggregate(ctx, locations)
	result.Intent = turn.response.Intent

	turn.response.Locations = result.Locations
	turn.response.Weather = result.Records
	turn.response.Degraded = result.Degraded
	turn.response.Response = weatherSummary(result)

	s.logger.InfoContext(ctx, "Weather turn completed",
		slog.String("request_id", turn.response.RequestID),
		slog.String("primary", primary),
		slog.Int("locations", len(result.Locations)),
		slog.Bool("degraded", result.Degraded))
}

func (s *PipelineServiceImpl) runGeneralBranch(turn *turnState) {
	turn.response.Response = fmt.Sprintf(
		"I heard you say: %q. Ask me about the weather in any city and I'll pull up current conditions.",
		turn.message)
}

func weatherSummary(result types.AggregationResult) string {
	primary := result.Locations.Primary()
	summary := fmt.Sprintf("Here's the current weather for %s and %d nearby areas.", primary, len(result.Locations)-1)
	if len(result.Locations) <= 1 {
		summary = fmt.Sprintf("Here's the current weather for %s.", primary)
	}
	if result.Degraded {
		summary += " Live data was unavailable for some locations, so approximate values are shown."
	}
	return summary
}

func (s *PipelineServiceImpl) recordTurn(ctx context.Context, turn *turnState, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.ChatTurnsTotal.Add(ctx, 1)
	s.metrics.TurnDurationSeconds.Record(ctx, elapsed.Seconds())
	if turn.response.Degraded {
		s.metrics.SyntheticTurnsTotal.Add(ctx, 1)
	}
}
