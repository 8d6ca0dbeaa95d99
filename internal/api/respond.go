// Package api holds the JSON response helpers shared by every handler
// package.
package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes a {"message": ...} error body.
func Error(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// ValidationError writes a 400 with a per-field error list.
func ValidationError(w http.ResponseWriter, message string, errs []string) {
	WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
		"message": message,
		"errors":  errs,
	})
}

// ServerError logs err and writes a 500. The error detail is echoed to the
// client only when detail is true (non-production environments).
func ServerError(w http.ResponseWriter, err error, detail bool) {
	log.Printf("server error: %v", err)
	body := map[string]string{"message": "Server error"}
	if detail && err != nil {
		body["error"] = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, body)
}
