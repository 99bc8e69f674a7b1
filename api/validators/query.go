package validators

import (
	"fmt"
	"net/http"
	"strconv"

	pkgerrors "github.com/angelmondragon/foodorder-backend/pkg/errors"
)

// QueryString returns the sanitized value of key, capped at maxLen runes.
func QueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

// ParseQueryInt reads key as an integer in [min, max]. A missing value yields
// fallback.
func ParseQueryInt(r *http.Request, key string, fallback, min, max int) (int, error) {
	raw := QueryString(r, key, 32)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, queryError(key, fmt.Sprintf("%s must be a whole number", key), nil)
	}
	if value < min || value > max {
		return 0, queryError(key, fmt.Sprintf("%s must be between %d and %d", key, min, max), map[string]any{"min": min, "max": max})
	}
	return value, nil
}

func queryError(key, msg string, extra map[string]any) error {
	details := map[string]any{"field": key}
	for k, v := range extra {
		details[k] = v
	}
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(details)
}
