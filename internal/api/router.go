// Package api provides the HTTP API for the DAT251 service.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ollav12/DAT251/internal/api/handler"
	"github.com/ollav12/DAT251/internal/api/middleware"
	"github.com/ollav12/DAT251/internal/auth"
	"github.com/ollav12/DAT251/internal/challenge"
	"github.com/ollav12/DAT251/internal/trip"
	"github.com/ollav12/DAT251/internal/user"
	"github.com/ollav12/DAT251/internal/vehicle"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	DB               handler.Pinger
	JWTService       *auth.JWTService
	AuthService      *auth.Service
	UserService      *user.Service
	VehicleService   *vehicle.Service
	TripService      *trip.Service
	ChallengeService *challenge.Service
	ChallengeEngine  *challenge.Engine
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "dat251-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS)
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireJSON)

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	userHandler := handler.NewUserHandler(cfg.UserService, cfg.TripService)
	vehicleHandler := handler.NewVehicleHandler(cfg.VehicleService)
	tripHandler := handler.NewTripHandler(cfg.TripService)
	challengeHandler := handler.NewChallengeHandler(cfg.ChallengeService, cfg.ChallengeEngine)

	authMiddleware := middleware.Auth(cfg.JWTService)

	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit)
			r.Post("/login", authHandler.Login)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Registration is public so new users can sign up
		r.With(authRateLimit).Post("/users", userHandler.Register)

		// Leaderboard is public - standard rate limiting
		r.With(standardRateLimit).Get("/leaderboard", userHandler.Leaderboard)

		// Trip estimation calls the routing provider - strict rate
		// limiting. Auth is optional; it is only needed when estimating
		// with a personal vehicle.
		r.With(expensiveRateLimit, middleware.OptionalAuth(cfg.JWTService)).
			Get("/trips/estimate", tripHandler.Estimate)

		// User-scoped endpoints (authenticated) - user-based rate limiting
		r.Route("/users/{userId}", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))

			r.Get("/", userHandler.Get)
			r.Put("/", userHandler.Update)
			r.Delete("/", userHandler.Delete)
			r.Get("/statistics", userHandler.Statistics)

			// Vehicles
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", vehicleHandler.List)
				r.Post("/", vehicleHandler.Create)
				r.Route("/{vehicleId}", func(r chi.Router) {
					r.Get("/", vehicleHandler.Get)
					r.Delete("/", vehicleHandler.Delete)
					r.Put("/default", vehicleHandler.SetDefault)
				})
			})

			// Trips
			r.Route("/trips", func(r chi.Router) {
				r.Get("/", tripHandler.List)
				r.Post("/", tripHandler.Create)
			})

			// Challenge participation
			r.Route("/challenges", func(r chi.Router) {
				r.Get("/", challengeHandler.ListForUser)
				r.Route("/{challengeId}", func(r chi.Router) {
					r.Post("/start", challengeHandler.Start)
					r.Post("/progress", challengeHandler.Progress)
					r.Post("/complete", challengeHandler.Complete)
				})
			})
		})

		// Trips by ID (authenticated, ownership checked in handler)
		r.Route("/trips/{tripId}", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Get("/", tripHandler.Get)
			r.Put("/", tripHandler.Update)
			r.Delete("/", tripHandler.Delete)
		})

		// Challenge definitions (authenticated)
		r.Route("/challenges", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", challengeHandler.List)
			r.Post("/", challengeHandler.Create)
			r.Route("/{challengeId}", func(r chi.Router) {
				r.Get("/", challengeHandler.Get)
				r.Delete("/", challengeHandler.Delete)
			})
		})
	})

	return r
}
