// Package middleware provides HTTP middleware for the MangoBar search server.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// SessionStateFunc reports how a request is authenticated, e.g.
// "authenticated", "access_key" or "unauthenticated".
type SessionStateFunc func(r *http.Request) string

// NewSlogLogger returns a middleware that writes one structured line per
// request: method, path, status, response size, duration, request ID and the
// caller's session state. Search requests also get the number of selected
// regions and whether a name was given; the search text itself is never logged.
//
// Wire it after chimiddleware.RequestID so the request ID is available.
// A nil sessionState omits the session attribute.
func NewSlogLogger(log *slog.Logger, sessionState SessionStateFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Read before the handler runs: POST /session/end drops the session.
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
			}
			if sessionState != nil {
				attrs = append(attrs, "session", sessionState(r))
			}
			if q := r.URL.Query(); q.Has("region") || q.Has("address") || q.Has("name") {
				attrs = append(attrs,
					"regions", len(q["region"]),
					"has_address", q.Get("address") != "",
					"has_name", q.Get("name") != "",
				)
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			attrs = append(attrs,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
			log.InfoContext(r.Context(), "request", attrs...)
		})
	}
}
