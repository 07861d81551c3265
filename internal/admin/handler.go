package admin

import (
	"net/http"

	"github.com/saulo-duarte/learnhub-lambda/internal/config"
)

type Handler struct {
	service StatsService
}

func NewHandler(s StatsService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		config.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	config.JSON(w, http.StatusOK, stats)
}
