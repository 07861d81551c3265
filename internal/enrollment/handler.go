package enrollment

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/course"
)

type Handler struct {
	service EnrollmentService
}

func NewHandler(s EnrollmentService) *Handler {
	return &Handler{service: s}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		config.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotEnrolled):
		config.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrEnrollmentNotFound),
		errors.Is(err, course.ErrCourseNotFound),
		errors.Is(err, course.ErrModuleNotFound):
		config.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, course.ErrNotPublished):
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

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	e, err := h.service.Enroll(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, e)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, list)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetProgress(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) MarkVideoWatched(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.MarkVideoWatched(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) MarkTextRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.MarkTextRead(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Unenroll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Unenroll(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
