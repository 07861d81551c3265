package user

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.GetUser)
	return r
}

// AdminRoutes expects to be mounted behind auth.RequireRole(auth.RoleAdmin).
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/users", h.ListUsers)
	r.Post("/employees", h.CreateEmployee)
	r.Put("/users/{id}/role", h.ChangeRole)
	r.Delete("/users/{id}", h.DeleteUser)
	return r
}
