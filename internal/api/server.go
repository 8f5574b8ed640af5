// Package api provides the HTTP API server and handlers for the wardrobe application.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wardrobeapp/wardrobe-server/internal/ratelimit"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
	"github.com/wardrobeapp/wardrobe-server/internal/sse"
	"github.com/wardrobeapp/wardrobe-server/internal/validation"
)

// Services bundles the service dependencies of the HTTP layer.
type Services struct {
	Members   *service.MemberService
	Items     *service.ItemService
	Tags      *service.TagService
	Locations *service.LocationService
	Settings  *service.SettingsService
	Wardrobe  *service.WardrobeService
	Outfit    *service.OutfitService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services   Services
	sseHandler *sse.Handler
	validator  *validation.Validator
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
	pinLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services Services, sseHandler *sse.Handler, logger *slog.Logger) *Server {
	s := &Server{
		services:   services,
		sseHandler: sseHandler,
		validator:  validation.New(),
		router:     chi.NewRouter(),
		logger:     logger,
		// Two PIN attempts per second with a burst of ten per client address.
		pinLimiter: ratelimit.New(2, 10),
	}

	s.setupMiddleware()

	RegisterErrorHandler()
	s.api = humachi.New(s.router, huma.DefaultConfig("Wardrobe API", "1.0.0"))

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	// Local-network app; the mobile client may load from any origin.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	s.router.Use(s.throttlePinAttempts)
}

// throttlePinAttempts rate limits PIN-bearing settings writes per client
// address to slow down brute forcing. Other routes pass through untouched.
func (s *Server) throttlePinAttempts(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/v1/settings/") {
			if !s.pinLimiter.Allow(r.RemoteAddr) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"code":"RATE_LIMITED","message":"too many attempts, slow down"}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// Raw SSE endpoints live outside huma: they stream.
	s.router.Get("/api/v1/events", s.sseHandler.ServeHTTP)
	s.router.Get("/api/v1/members/{id}/view/stream", s.handleViewStream)

	s.registerMemberRoutes()
	s.registerItemRoutes()
	s.registerTagRoutes()
	s.registerLocationRoutes()
	s.registerSettingsRoutes()
	s.registerOutfitRoutes()
	s.registerViewRoutes()
}

// handleHealthCheck reports liveness.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
