package validators

import (
	"net/http"
	"strconv"
	"strings"
)

// QueryInt reads an integer query parameter. Blank or non-numeric values
// yield fallback; range clamping is left to the caller.
func QueryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
