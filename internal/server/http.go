package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mchugh/liveblog/internal/adapters/rest"
	"github.com/mchugh/liveblog/internal/platform/logger"
)

// NewHTTPServer creates and configures the HTTP server with all routes
func NewHTTPServer(
	config Config,
	content *rest.ContentHandler,
	events *rest.EventsHandler,
	media *rest.MediaHandler,
	health *rest.HealthHandler,
	log logger.Logger,
) *http.Server {
	r := chi.NewRouter()

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/health/live", health.GetLiveness)
		api.Get("/health/ready", health.GetReadiness)

		api.Route("/posts", func(posts chi.Router) {
			posts.Get("/", content.ListItems)
			posts.Post("/", content.CreateItem)
			posts.Get("/{id}", content.GetItem)
			posts.Put("/{id}", content.UpdateItem)
			posts.Delete("/{id}", content.DeleteItem)
			posts.Post("/{id}/like", content.LikeItem)
			posts.Post("/{id}/view", content.RecordView)
		})

		api.Get("/stats", content.GetStats)
		api.Get("/events", events.Stream)
	})

	r.Get("/media/{name}", media.ServeAsset)

	handler := withObservability(r, log)

	return &http.Server{
		Addr:        config.ServerAddress,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the /api/v1/events stream holds its connection
		// open for the client's whole session.
		IdleTimeout: 60 * time.Second,
	}
}

// withObservability adds request logging
func withObservability(handler http.Handler, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Use chi's response writer wrapper to capture status code
		wrr := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		handler.ServeHTTP(wrr, r)

		duration := time.Since(start)
		log.Info(r.Context(), "HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrr.Status(),
			"duration_ms", duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
	})
}
