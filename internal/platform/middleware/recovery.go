package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	dErrors "wardflow/pkg/domain-errors"
	"wardflow/pkg/platform/httputil"
	"wardflow/pkg/requestcontext"
)

// Recovery converts a handler panic into a 500 response instead of killing
// the connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "handler panic",
						"panic", rec,
						"stack", string(debug.Stack()),
						"request_id", requestcontext.RequestID(r.Context()),
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
