package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Public, no auth required.
	r.Get("/health", g.handleHealth())
	r.Method(http.MethodGet, "/metrics", g.metrics.Handler())

	// API endpoints require auth. Not mounted if no auth configured.
	if g.config.Auth.IsConfigured() {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(g.config.Auth))
			r.Get("/ws/events", g.hub.ServeHTTP)
			r.Route("/api", func(r chi.Router) {
				r.Post("/canonicalize", g.handleCanonicalize())
				r.Post("/detect", g.handleDetect())
				r.Post("/emit/{target}", g.handleEmit())
				r.Route("/tools", func(r chi.Router) {
					r.Post("/", g.handleCreateTool())
					r.Get("/", g.handleListTools())
					r.Get("/search", g.handleSearchTools())
					r.Get("/{name}", g.handleGetTool())
					r.Delete("/{name}", g.handleDeleteTool())
				})
			})
		})
	}

	return r
}
