package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

// writeError writes the API's structured error body.
func writeError(w http.ResponseWriter, code int, message string) {
	body, _ := json.Marshal(map[string]any{
		"error": map[string]any{
			"message":     message,
			"status_code": code,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
