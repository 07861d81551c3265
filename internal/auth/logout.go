package auth

import (
	"net/http"

	"github.com/saulo-duarte/learnhub-lambda/internal/config"
)

const CookieName = "jwt"

type Handler struct {
	cookieDomain string
}

func NewHandler() *Handler {
	return &Handler{cookieDomain: config.Env("COOKIE_DOMAIN", "")}
}

// SetSessionCookie writes the session token the same way Logout clears it.
func (h *Handler) SetSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.SetSessionCookie(w, "", -1)

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "logout successful",
	})
}
