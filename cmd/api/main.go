// Package main provides the entrypoint for the DAT251 API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ollav12/DAT251/internal/api"
	"github.com/ollav12/DAT251/internal/api/middleware"
	"github.com/ollav12/DAT251/internal/auth"
	"github.com/ollav12/DAT251/internal/challenge"
	"github.com/ollav12/DAT251/internal/database"
	"github.com/ollav12/DAT251/internal/emission"
	"github.com/ollav12/DAT251/internal/routing"
	"github.com/ollav12/DAT251/internal/routing/googlemaps"
	"github.com/ollav12/DAT251/internal/telemetry"
	"github.com/ollav12/DAT251/internal/trip"
	"github.com/ollav12/DAT251/internal/user"
	"github.com/ollav12/DAT251/internal/vehicle"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "dat251-api"

	// Local development convenience; a missing .env is fine
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting DAT251 API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// JWT signing key
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
	})

	// Routing provider
	mapsAPIKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if mapsAPIKey == "" {
		log.Fatal().Msg("GOOGLE_MAPS_API_KEY is required")
	}
	mapsClient := googlemaps.NewClient(googlemaps.ClientConfig{
		APIKey: mapsAPIKey,
		Logger: log,
	})
	routingService := routing.NewService(routing.ServiceConfig{
		Provider: mapsClient,
		Logger:   log,
	})
	log.Info().Str("provider", mapsClient.Name()).Msg("routing service initialized")

	// Domain services
	userRepo := user.NewPostgresRepository(pool)
	userService := user.NewService(userRepo)
	authService := auth.NewService(userService, jwtService)
	log.Info().Msg("user and auth services initialized")

	vehicleRepo := vehicle.NewPostgresRepository(pool)
	vehicleService := vehicle.NewService(vehicleRepo)
	log.Info().Msg("vehicle service initialized")

	challengeRepo := challenge.NewPostgresRepository(pool)
	challengeService := challenge.NewService(challengeRepo)
	challengeEngine := challenge.NewEngine(challenge.EngineConfig{
		Repo:   challengeRepo,
		Points: userService,
		Logger: log,
	})
	log.Info().Msg("challenge service initialized")

	tripRepo := trip.NewPostgresRepository(pool)
	aggregator := trip.NewAggregator(routingService, emission.NewEstimator(emission.DefaultFactors()))
	tripService := trip.NewService(trip.ServiceConfig{
		Repo:       tripRepo,
		Vehicles:   vehicleRepo,
		Users:      userRepo,
		Aggregator: aggregator,
		Progress:   challengeEngine,
		Logger:     log,
	})
	log.Info().Msg("trip service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		DB:               pool,
		JWTService:       jwtService,
		AuthService:      authService,
		UserService:      userService,
		VehicleService:   vehicleService,
		TripService:      tripService,
		ChallengeService: challengeService,
		ChallengeEngine:  challengeEngine,
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
