// Package handlers implements the portal's HTTP API.
package handlers

import (
	"encoding/json"
	"net/http"
)

// RequireMethod checks the request method against the one the endpoint
// serves. HEAD is accepted wherever GET is. On a mismatch it writes a 405 and
// returns false; handlers bail out immediately.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

// WriteJSON writes data as a JSON response with the given status code. Every
// API endpoint responds through this or WriteError so envelopes stay uniform.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes the portal's standard error envelope:
// {"status": "error", "error": <message>}.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}
