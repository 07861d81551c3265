package certificate

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
)

type Handler struct {
	service CertificateService
}

func NewHandler(s CertificateService) *Handler {
	return &Handler{service: s}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidID):
		config.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrCertificateNotFound):
		config.Error(w, http.StatusNotFound, err.Error())
	default:
		config.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	certs, err := h.service.ListMine(r.Context(), auth.ActorFromClaims(claims))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, certs)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	cert, err := h.service.Verify(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, cert)
}

func (h *Handler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	certs, err := h.service.ListByCourse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	config.JSON(w, http.StatusOK, certs)
}
