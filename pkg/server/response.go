package server

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the JSON error envelope returned by all endpoints.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	// Type is a stable machine-readable error class.
	Type string `json:"type"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error envelope with the given status code.
func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, errorResponse{
		Error: errorDetail{Type: errType, Message: message},
	})
}
