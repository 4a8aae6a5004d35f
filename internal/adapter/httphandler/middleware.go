package httphandler

import (
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/niksmo/storefront/internal/core/session"
)

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// CartSession attaches the shopper's session to the request context.
//
// The session id travels in cookieName. GET and HEAD requests only
// resume a live session and pass through without one otherwise. Other
// methods start a fresh session for unknown or missing ids and (re)issue
// the cookie.
func CartSession(reg *session.Registry, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hf := func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cookieName); err == nil {
				id = c.Value
			}

			if isSafeMethod(r.Method) {
				if s, ok := reg.Get(id); ok {
					r = r.WithContext(session.WithSession(r.Context(), s))
				}
				next.ServeHTTP(w, r)
				return
			}

			s, created := reg.Open(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    s.ID(),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		}
		return http.HandlerFunc(hf)
	}
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LogRequests writes one debug record per served request.
func LogRequests(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		const op = "LogRequests"

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.Debug(
			"request served",
			"op", op,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	}
	return http.HandlerFunc(hf)
}
