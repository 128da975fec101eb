package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/lmittmann/tint"

	appLogger "github.com/FACorreiaa/go-weather-chat/app/logger"
	"github.com/FACorreiaa/go-weather-chat/app/observability/metrics"
	"github.com/FACorreiaa/go-weather-chat/app/tracer"
	"github.com/FACorreiaa/go-weather-chat/config"
	generativeAI "github.com/FACorreiaa/go-weather-chat/internal/api/generative_ai"
	"github.com/FACorreiaa/go-weather-chat/internal/api/intent"
	"github.com/FACorreiaa/go-weather-chat/internal/api/locality"
	"github.com/FACorreiaa/go-weather-chat/internal/api/location"
	"github.com/FACorreiaa/go-weather-chat/internal/api/pipeline"
	"github.com/FACorreiaa/go-weather-chat/internal/api/search"
	"github.com/FACorreiaa/go-weather-chat/internal/api/weather"
	api "github.com/FACorreiaa/go-weather-chat/internal/router"
)

func main() {
	// --- Initial Loading ---
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// --- Logger Setup ---
	logger := setupLogger()
	slog.SetDefault(logger) // Set globally after initialization

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Server.MetricsPort)
	metrics.InitAppMetrics()

	// --- Static Configuration Data ---
	catalog := locality.NewCatalog()
	if err := catalog.Validate(); err != nil {
		logger.Error("Locality catalog failed validation", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Capabilities ---
	// The AI client is optional: without it the pipeline still answers using
	// keyword classification and the deterministic parser.
	var aiClient generativeAI.StructuredGenerator
	if client, err := generativeAI.NewAIClient(ctx, cfg.Gemini.Model, cfg.Gemini.Temperature); err != nil {
		logger.Warn("AI client unavailable, running with fallback paths only", slog.Any("error", err))
	} else {
		aiClient = client
	}
	searchClient := search.NewHTTPClient(cfg.Search.Endpoint, cfg.Search.Timeout, cfg.Search.CacheTTL, logger)

	// --- Dependency Injection ---
	classifier := intent.NewClassifier(aiClient, logger)
	heuristic := location.NewHeuristicStrategy(clockwork.NewRealClock())
	resolver := location.NewResolver(aiClient, searchClient, heuristic, logger)
	expander := locality.NewExpander(catalog, searchClient, logger)
	aggregator := weather.NewAggregator(searchClient, aiClient, catalog, logger)
	pipelineService := pipeline.NewPipelineService(classifier, resolver, expander, aggregator, metrics.Get(), logger)
	chatHandler := pipeline.NewChatHandler(pipelineService, logger)

	// --- Router Setup ---
	routerConfig := &api.Config{
		ChatHandler: chatHandler,
	}
	mainRouter := api.SetupRouter(routerConfig)

	router := chi.NewMux() // Use NewMux for Chi v5
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger)) // Use your slog middleware
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json")) // Compress JSON responses
	router.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError), // Pipe server errors to slog
	}

	// --- Start Server Goroutine ---
	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel() // Trigger shutdown if server fails unexpectedly
		}
	}()

	// --- Wait for Shutdown Signal ---
	<-ctx.Done() // Block until context is cancelled (Ctrl+C, SIGTERM)

	// --- Graceful Shutdown ---
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" { // Default to development if not set
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug, // More verbose in dev
			TimeFormat: time.Kitchen,
			AddSource:  true, // Show file:line
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)") // Use standard log before slog default is set
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false, // Don't add source in prod unless needed for specific errors
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
