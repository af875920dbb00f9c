// Package middleware adapts the shared HTTP middleware to the JSON API.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcoot/mindmaze/internal/api/apierr"
	"github.com/mcoot/mindmaze/internal/middleware"
)

// Logging logs every API request under the "http" component
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "http")))
}

// Recovery turns handler panics into INTERNAL_ERROR JSON responses
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "http")), apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, r *http.Request, err any) {
	w.Header().Set("X-Error-Source", "panic")
	apierr.WriteError(w, fmt.Errorf("%s %s: %v", r.Method, r.URL.Path, err))
}
