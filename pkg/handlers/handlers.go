// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes payload as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already out; nothing to do but note it.
		slog.Default().Error("encode response", "error", err)
	}
}

// RespondError writes err as a JSON error envelope and logs it.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if logger != nil {
		logger.Error("request failed", "status", status, "error", err)
	}
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}
