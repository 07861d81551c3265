package aiquiz

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/quiz"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrIndexOutOfRange):
		config.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden), errors.Is(err, quiz.ErrForbidden):
		config.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrDraftNotFound), errors.Is(err, quiz.ErrQuizNotFound):
		config.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, quiz.ErrMultipleCorrectAnswers):
		config.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNoUsableQuestions):
		config.Error(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, ErrProviderUnavailable):
		config.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		config.Error(w, http.StatusInternalServerError, "failed to generate questions")
	}
}

func actorFrom(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Actor{}, false
	}
	return auth.ActorFromClaims(claims), true
}

func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req GenerateDTO
	if !config.Bind(w, r, &req) {
		return
	}

	draft, err := h.service.Generate(r.Context(), actor, req)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to generate questions")
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, draft)
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	draft, err := h.service.GetDraft(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, draft)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req ImportDTO
	if !config.Bind(w, r, &req) {
		return
	}

	q, err := h.service.Import(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, q)
}
