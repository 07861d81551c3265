package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/{id}", h.GetQuiz)
	r.Get("/{id}/attempts", h.ListAttempts)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleTrainer))

		r.Post("/", h.CreateQuiz)
		r.Delete("/{id}", h.DeleteQuiz)
		r.Post("/{id}/questions", h.AddQuestions)
		r.Put("/questions/{questionID}", h.UpdateQuestion)
		r.Delete("/questions/{questionID}", h.RemoveQuestion)
	})
	return r
}
