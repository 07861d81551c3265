package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListCourses)
	r.Get("/{id}", h.GetCourse)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleTrainer))

		r.Post("/", h.CreateCourse)
		r.Put("/{id}", h.UpdateCourse)
		r.Delete("/{id}", h.DeleteCourse)
		r.Post("/{id}/publish", h.Publish)
		r.Post("/{id}/unpublish", h.Unpublish)
		r.Post("/{id}/modules", h.AddModule)
		r.Put("/{id}/modules/order", h.ReorderModules)
	})
	return r
}

func ModuleRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(auth.RequireRole(auth.RoleTrainer))

	r.Put("/{id}", h.UpdateModule)
	r.Delete("/{id}", h.DeleteModule)
	return r
}
