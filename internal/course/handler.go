package course

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
)

type Handler struct {
	service CourseService
}

func NewHandler(s CourseService) *Handler {
	return &Handler{service: s}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidOrdering):
		config.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		config.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrCourseNotFound), errors.Is(err, ErrModuleNotFound):
		config.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotPublished), errors.Is(err, ErrCourseInUse), errors.Is(err, ErrModuleInUse):
		config.Error(w, http.StatusConflict, err.Error())
	default:
		config.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func actorFrom(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		config.WithContext(r.Context()).Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Actor{}, false
	}
	return auth.ActorFromClaims(claims), true
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	courses, err := h.service.ListCourses(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]CourseSummary, 0, len(courses))
	for i := range courses {
		resp = append(resp, ToSummary(&courses[i]))
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	c, err := h.service.GetCourse(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var dto CreateCourseDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	c, err := h.service.CreateCourse(r.Context(), actor, dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var dto UpdateCourseDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	c, err := h.service.UpdateCourse(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCourse(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, true)
}

func (h *Handler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublished(w, r, false)
}

func (h *Handler) setPublished(w http.ResponseWriter, r *http.Request, published bool) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	c, err := h.service.SetPublished(r.Context(), actor, chi.URLParam(r, "id"), published)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) AddModule(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var dto ModuleDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	m, err := h.service.AddModule(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, m)
}

func (h *Handler) ReorderModules(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var dto ReorderModulesDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	c, err := h.service.ReorderModules(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var dto UpdateModuleDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	m, err := h.service.UpdateModule(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteModule(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
