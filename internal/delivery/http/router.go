package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"eventregistration/internal/delivery/http/controllers"
	"eventregistration/internal/delivery/http/helpers"
	"eventregistration/internal/delivery/http/middleware"
	"eventregistration/internal/domain"
	"eventregistration/internal/metrics"
)

// RouterConfig holds the dependencies of the API router.
type RouterConfig struct {
	Logger         *slog.Logger
	Service        domain.EventService
	Store          controllers.Pinger
	AllowedOrigins []string
	RateLimit      middleware.RateLimitConfig
}

// NewRouter initializes the HTTP router with all application routes and wraps it in
// the middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	eventController := controllers.NewEventController(logger, cfg.Service)
	participantController := controllers.NewParticipantController(logger, cfg.Service)
	healthController := controllers.NewHealthController(logger, cfg.Store)
	limit := middleware.RateLimit(cfg.RateLimit)

	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("GET /api/events", limit(eventController.ListEvents))
	mux.HandleFunc("POST /api/events", limit(eventController.CreateEvent))
	mux.HandleFunc("GET /api/events/{eventId}", limit(eventController.GetEvent))
	mux.HandleFunc("PATCH /api/events/{eventId}", limit(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /api/events/{eventId}", limit(eventController.DeleteEvent))
	mux.HandleFunc("GET /api/events/{eventId}/participants", limit(participantController.ListParticipants))
	mux.HandleFunc("POST /api/events/{eventId}/register", limit(participantController.Register))

	// Operations
	mux.HandleFunc("GET /healthz", healthController.Healthz)
	mux.HandleFunc("GET /readyz", healthController.Readyz)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("/", notFound)

	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.RequestID(handler)
	return handler
}

func notFound(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path))
}
