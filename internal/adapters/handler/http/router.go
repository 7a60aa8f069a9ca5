package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elections/internal/core/ports"
)

func NewHandler(electionHandler *ElectionHandler, verifier ports.IdentityVerifier, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(IdentityMiddleware(verifier, logger))

		r.Route("/elections/{id}", func(r chi.Router) {
			r.Post("/candidates", electionHandler.RegisterCandidacy)
			r.Post("/votes", electionHandler.CastVote)
			r.Get("/voter-state", electionHandler.VoterState)
			r.Get("/results", electionHandler.Results)
		})
	})

	return r
}
