package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse represents a JSON error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// okError is the legacy error envelope: just {"error": "..."}.
type okError struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent, nothing left to do but log.
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// WriteOK writes v as a 200 JSON response. The public counter
// endpoints always answer 200, success or not.
func WriteOK(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, v)
}

// WriteOKError writes the legacy error envelope {"error": message}
// with status 200. Legacy clients detect failure by the presence of
// the "error" key, never by status code.
func WriteOKError(w http.ResponseWriter, message string) {
	WriteOK(w, okError{Error: message})
}

// WriteError writes a JSON error response with a real status code,
// used by the non-legacy surfaces (health, admin reset).
func WriteError(w http.ResponseWriter, status int, code, message string, details any) {
	resp := ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	}
	WriteJSON(w, status, resp)
}
