package controllers

import (
	"log/slog"
	"net/http"

	"ourhour/internal/delivery/http/helpers"
)

// writeError logs server-side failures and writes the mapped error envelope.
func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := helpers.StatusForError(err); status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	helpers.WriteServiceError(w, err)
}
