package certificate

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes expects to be mounted behind auth.AuthMiddleware. Verification by number
// is public and wired directly in the router.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListMine)
	return r
}
