package googleauth

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/url", h.AuthURL)
	r.Post("/callback", h.Callback)
	return r
}
