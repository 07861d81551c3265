package middlewares

import (
	"net/http"
	"strings"

	"github.com/saulo-duarte/learnhub-lambda/internal/config"
)

// CorsMiddleware echoes the request origin when it is on CORS_ALLOWED_ORIGINS.
// Credentials are allowed because the session travels in a cookie.
func CorsMiddleware(next http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, origin := range strings.Split(config.Env("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowed[origin] || allowed["*"]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
