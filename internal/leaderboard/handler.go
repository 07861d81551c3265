package leaderboard

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
)

type Handler struct {
	service LeaderboardService
}

func NewHandler(s LeaderboardService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Top(r.Context(), config.QueryInt(r, "limit", MaxEntries))
	if err != nil {
		config.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	config.JSON(w, http.StatusOK, entries)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entry, err := h.service.RankOf(r.Context(), auth.ActorFromClaims(claims))
	switch {
	case errors.Is(err, ErrInvalidID):
		config.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotRanked):
		config.Error(w, http.StatusNotFound, err.Error())
	case err != nil:
		config.Error(w, http.StatusInternalServerError, "internal server error")
	default:
		config.JSON(w, http.StatusOK, entry)
	}
}
