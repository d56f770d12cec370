package http

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/message", h.HandleMessage)
		r.Post("/content", h.GenerateContent)
		r.Post("/chat", h.Chat)
		r.Get("/recommendations", h.GetRecommendations)
		r.Post("/recommendations/execute", h.ExecuteRecommendation)
		r.Get("/insights", h.GenerateInsights)
	})
}
