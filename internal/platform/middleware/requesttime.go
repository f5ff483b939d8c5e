package middleware

import (
	"net/http"
	"time"

	"wardflow/pkg/requestcontext"
)

// RequestTime pins one "now" per request so every timestamp written while
// handling it agrees, reassignments and cascades included.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
