package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
)

type Handler struct {
	service UserService
	cookies *auth.Handler
}

func NewHandler(s UserService) *Handler {
	return &Handler{service: s, cookies: auth.NewHandler()}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidRole):
		config.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidClaimToken):
		config.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotRegistered), errors.Is(err, ErrSelfModification):
		config.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrEmployeeNotFound), errors.Is(err, ErrUserNotFound):
		config.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNIKAlreadyClaimed), errors.Is(err, ErrNIKTaken):
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

func (h *Handler) VerifyNIK(w http.ResponseWriter, r *http.Request) {
	var dto VerifyNIKDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	resp, err := h.service.VerifyNIK(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	resp, err := h.service.Register(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	resp, err := h.service.Login(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.SetSessionCookie(w, resp.Token, resp.ExpiresIn)
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetMe(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Role:   Role(r.URL.Query().Get("role")),
		Search: r.URL.Query().Get("q"),
		Limit:  config.QueryInt(r, "limit", defaultPageSize),
		Offset: config.QueryInt(r, "offset", 0),
	}

	resp, err := h.service.ListUsers(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	resp, err := h.service.CreateEmployee(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var dto ChangeRoleDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	resp, err := h.service.ChangeRole(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
