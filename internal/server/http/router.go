package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, webDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/games", h.HandleNewGame)
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetGame)
			r.Post("/moves", h.HandleMove)
			r.Post("/undo", h.HandleUndo)
			r.Post("/reset", h.HandleReset)
			r.Post("/resume", h.HandleResume)
			r.Get("/pgn", h.HandlePGN)
			r.Get("/ws", h.HandleWS)
		})
		r.Post("/analyze", h.HandleAnalyze)
	})

	if RegisterStaticRoutes(r, webDir) {
		h.log.Infow("serving static files", "dir", webDir)
	}
	return r
}
