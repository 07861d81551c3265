package aiquiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.RequireRole(auth.RoleTrainer))

	r.Post("/", h.GenerateQuestions)
	r.Get("/{id}", h.GetDraft)
	r.Post("/{id}/import", h.Import)
	return r
}
