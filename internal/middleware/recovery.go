package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer converts a handler panic into a 500 response. The panic value
// and stack are logged with the request ID; the client sees only the
// generic status text.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				logger.Error("panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
