package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	ChatTurnsTotal        metric.Int64Counter
	TurnDurationSeconds   metric.Float64Histogram
	CapabilityErrorsTotal metric.Int64Counter
	SyntheticTurnsTotal   metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("WeatherChat")
		var err error
		m := &AppMetrics{}

		m.ChatTurnsTotal, err = meter.Int64Counter(
			"chat_turns_total",
			metric.WithDescription("Total number of chat turns processed"),
			metric.WithUnit("{turn}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_turns_total: %v", err)
		}

		m.TurnDurationSeconds, err = meter.Float64Histogram(
			"turn_duration_seconds",
			metric.WithDescription("Duration of chat turns in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create turn_duration_seconds: %v", err)
		}

		m.CapabilityErrorsTotal, err = meter.Int64Counter(
			"capability_errors_total",
			metric.WithDescription("Total number of search/completion capability failures"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create capability_errors_total: %v", err)
		}

		m.SyntheticTurnsTotal, err = meter.Int64Counter(
			"synthetic_turns_total",
			metric.WithDescription("Total number of turns that served synthetic fallback data"),
			metric.WithUnit("{turn}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create synthetic_turns_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, or nil when
// InitAppMetrics has not run (tests construct services with nil metrics).
func Get() *AppMetrics {
	return appMetrics
}

// RecordCapabilityError counts one search/completion capability failure,
// labeled with the capability that failed. No-op until InitAppMetrics has
// run, so degraded call sites need no nil checks of their own.
func RecordCapabilityError(ctx context.Context, capability string) {
	m := Get()
	if m == nil {
		return
	}
	m.CapabilityErrorsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("capability", capability)))
}
