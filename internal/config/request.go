package config

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Bind decodes the JSON body into dst and validates it. On failure it writes the
// response itself and returns false.
func Bind(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	log := WithContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.WithError(err).Warn("Invalid request body")
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if fields := Validate(dst); fields != nil {
		ValidationError(w, fields)
		return false
	}
	return true
}

func QueryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}
