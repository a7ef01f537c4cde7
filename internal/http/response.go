package http

import (
	"encoding/json"
	"net/http"
)

// APIError is the uniform error body. Handlers needing extra fields, like
// the conflict response with its overlapping slots, write their own payload
// through WriteJSON instead.
type APIError struct {
	Message string `json:"message"`
}

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail writes an APIError with the given status and message.
func Fail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, APIError{Message: msg})
}
