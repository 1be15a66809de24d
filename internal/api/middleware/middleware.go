// Package middleware binds the shared HTTP middleware to the API's JSON error format.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/beantunes235/fantasyforge/internal/api/apierr"
	"github.com/beantunes235/fantasyforge/internal/middleware"
)

// Recovery turns a handler panic into a 500 INTERNAL_ERROR body
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}

// Logging records one log line and the request metrics per API call
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}
