package googleauth

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/user"
)

const stateCookie = "google_oauth_state"

type CallbackDTO struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state" validate:"required"`
}

type Handler struct {
	service GoogleAuthService
	cookies *auth.Handler
}

func NewHandler(s GoogleAuthService) *Handler {
	return &Handler{service: s, cookies: auth.NewHandler()}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotConfigured):
		config.Error(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, ErrExchangeFailed), errors.Is(err, ErrEmailNotVerified), errors.Is(err, ErrUnknownAccount):
		config.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, user.ErrNotRegistered):
		config.Error(w, http.StatusForbidden, err.Error())
	default:
		config.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) AuthURL(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.AuthURL(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    resp.State,
		Path:     "/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	var dto CallbackDTO
	if !config.Bind(w, r, &dto) {
		return
	}

	// Clients that cannot keep cookies fall back to echoing the state they were given.
	if c, err := r.Cookie(stateCookie); err == nil && c.Value != dto.State {
		config.WithContext(r.Context()).Warn("Google callback state mismatch")
		config.Error(w, http.StatusBadRequest, "state mismatch")
		return
	}

	resp, err := h.service.Login(r.Context(), dto.Code)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.SetSessionCookie(w, resp.Token, resp.ExpiresIn)
	config.JSON(w, http.StatusOK, resp)
}
