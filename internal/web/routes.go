package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/kaleidoid/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	peopleHandler := handlers.NewPeopleHandler(s.engine)
	photosHandler := handlers.NewPhotosHandler(s.engine)
	recognizeHandler := handlers.NewRecognizeHandler(s.engine)
	similarHandler := handlers.NewSimilarHandler(s.engine)
	settingsHandler := handlers.NewSettingsHandler(s.engine)
	statsHandler := handlers.NewStatsHandler(s.engine)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// People
		r.Get("/people", peopleHandler.List)
		r.Post("/people", peopleHandler.Create)
		r.Get("/people/{id}", peopleHandler.Get)
		r.Put("/people/{id}", peopleHandler.Update)
		r.Delete("/people/{id}", peopleHandler.Delete)

		// Enrollment photos
		r.Post("/people/{id}/photos", photosHandler.Enroll)
		r.Delete("/photos/{photoID}", photosHandler.Delete)
		r.Put("/photos/{photoID}/primary", photosHandler.SetPrimary)

		// Recognition
		r.Post("/recognize", recognizeHandler.Recognize)
		r.Post("/faces/similar", similarHandler.Find)

		// Settings
		r.Get("/settings/threshold", settingsHandler.GetThreshold)
		r.Put("/settings/threshold", settingsHandler.SetThreshold)

		// Stats
		r.Get("/stats", statsHandler.Get)
		r.Get("/sessions/stats", statsHandler.Sessions)
	})
}
