// Package apiserver provides the JSON API HTTP server.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mealpathway/v1/internal/infrastructure/config"
	"github.com/mealpathway/v1/internal/infrastructure/http/handlers"
	"github.com/mealpathway/v1/internal/infrastructure/http/middleware"
	"github.com/mealpathway/v1/internal/infrastructure/security"
	"github.com/mealpathway/v1/internal/ports/inbound"
	"github.com/mealpathway/v1/internal/ports/outbound"
	"github.com/mealpathway/v1/pkg/healthcheck"
)

// Server wires middleware, handlers, and ops endpoints onto a chi router.
type Server struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
	router *chi.Mux
	tokens *security.TokenService
	health *healthcheck.HealthCheck

	accounts  inbound.AccountService
	planner   inbound.MealPlannerService
	assistant inbound.AssistantService
	diabetes  inbound.DiabetesService
	shopping  inbound.ShoppingService
	images    outbound.ImageResolver
}

// NewServer creates the API server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	tokens *security.TokenService,
	health *healthcheck.HealthCheck,
	accounts inbound.AccountService,
	planner inbound.MealPlannerService,
	assistant inbound.AssistantService,
	diabetes inbound.DiabetesService,
	shopping inbound.ShoppingService,
	images outbound.ImageResolver,
) *Server {
	s := &Server{
		config:    cfg,
		logger:    logger,
		tokens:    tokens,
		health:    health,
		accounts:  accounts,
		planner:   planner,
		assistant: assistant,
		diabetes:  diabetes,
		shopping:  shopping,
		images:    images,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Identity(s.tokens))
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.Compress(5))

	if s.config.RateLimit.Enable {
		rps := float64(s.config.RateLimit.RequestsPerMin) / 60
		r.Use(middleware.RateLimit(rps, s.config.RateLimit.BurstSize))
	}

	// Ops endpoints stay outside the JSON-only group.
	r.Get("/healthz", s.handleLiveness)
	r.Get("/__version", s.handleVersion)
	r.Get("/api/health", s.health.Handler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.JSONOnly())
		s.setupAPIRoutes(r)
	})

	return r
}

func (s *Server) setupAPIRoutes(r chi.Router) {
	accountH := handlers.NewAccountHandlers(s.accounts, s.logger)
	mealH := handlers.NewMealHandlers(s.planner, s.accounts, s.logger)
	assistantH := handlers.NewAssistantHandlers(s.assistant, s.logger)
	diabetesH := handlers.NewDiabetesHandlers(s.diabetes, s.logger)
	shoppingH := handlers.NewShoppingHandlers(s.shopping, s.logger)
	imageH := handlers.NewImageHandlers(s.images, s.logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", accountH.Signup)
		r.Post("/login", accountH.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.tokens))
			r.Get("/session", accountH.Session)
		})
	})

	r.Route("/gate", func(r chi.Router) {
		r.Post("/resolve", accountH.ResolveGate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser())
			r.Put("/flags", accountH.UpdateGateFlags)
			r.Get("/flags", accountH.GetGateFlags)
		})
	})

	r.Route("/meals", func(r chi.Router) {
		r.Use(middleware.RequireUser())
		r.Post("/craving-creator", mealH.CravingCreator)
		r.Post("/fridge-rescue", mealH.FridgeRescue)
		r.Get("/{id}", mealH.GetMeal)
	})

	r.With(middleware.RequireUser()).
		Post("/restaurants/analyze-menu", mealH.AnalyzeMenu)

	r.With(middleware.RequireUser()).
		Post("/assistant/chat", assistantH.Chat)

	r.With(middleware.RequireUser()).
		Get("/images/subject", imageH.SubjectImage)

	r.Route("/diabetes", func(r chi.Router) {
		r.Put("/profile", diabetesH.UpsertProfile)
		r.Post("/glucose", diabetesH.LogGlucose)
		r.Get("/glucose", diabetesH.ListGlucose)
	})

	r.Route("/shopping", func(r chi.Router) {
		r.Use(middleware.RequireUser())
		r.Post("/items", shoppingH.AddItems)
		r.Get("/items", shoppingH.List)
		r.Delete("/items/{id}", shoppingH.Remove)
		r.Post("/merge", shoppingH.Merge)
	})
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"name":%q,"version":%q,"environment":%q}`,
		s.config.App.Name, s.config.App.Version, s.config.App.Environment)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}
