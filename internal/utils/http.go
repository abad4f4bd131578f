package utils

import (
	"net/http"
	"strings"
)

// ExtractIDFromParams retrieves a path parameter value from the request and removes file extensions like ".json".
func ExtractIDFromParams(r *http.Request, paramName string) string {
	rawID := r.PathValue(paramName)
	return strings.Split(rawID, ".json")[0]
}
