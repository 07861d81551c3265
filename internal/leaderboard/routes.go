package leaderboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.Top)
	r.Get("/me", h.Me)
	return r
}
