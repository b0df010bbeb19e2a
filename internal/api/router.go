// Package api exposes the knowledge service over HTTP as JSON.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"knowledge_hub/internal/service"
)

type Router struct {
	service        *service.KnowledgeService
	logger         *slog.Logger
	allowedOrigins []string
}

func NewRouter(svc *service.KnowledgeService, logger *slog.Logger, allowedOrigins []string) *Router {
	return &Router{
		service:        svc,
		logger:         logger.With("component", "http"),
		allowedOrigins: allowedOrigins,
	}
}

// Setup builds the handler tree with its middleware chain.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(requestLogger(rt.logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	router.Use(limitBody)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Get("/health", rt.healthCheck)

	router.Route("/api", func(r chi.Router) {
		domains := &domainHandler{service: rt.service, logger: rt.logger}
		r.Route("/domains", func(r chi.Router) {
			r.Get("/", domains.List)
			r.Post("/", domains.Create)
			r.Get("/{id}", domains.Get)
			r.Patch("/{id}", domains.Update)
			r.Delete("/{id}", domains.Delete)
		})

		articles := &articleHandler{service: rt.service, logger: rt.logger}
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", articles.List)
			r.Post("/", articles.Create)
			r.Get("/{id}", articles.Get)
			r.Patch("/{id}", articles.Update)
			r.Delete("/{id}", articles.Delete)
		})

		projects := &projectHandler{service: rt.service, logger: rt.logger}
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projects.List)
			r.Post("/", projects.Create)
			r.Get("/{id}", projects.Get)
			r.Patch("/{id}", projects.Update)
			r.Delete("/{id}", projects.Delete)
		})

		r.Get("/search", articles.Search)
		r.Get("/stats", rt.stats)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (rt *Router) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := rt.service.Stats(r.Context())
	if err != nil {
		respondError(w, r, rt.logger, resource{}, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
