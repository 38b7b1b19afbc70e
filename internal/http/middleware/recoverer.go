package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/tuanvumaihuynh/pos-station/internal/http/apierr"
)

// Recoverer turns a handler panic into a 500. Browsers asking for HTML get a
// plain text body; everything else gets the JSON error response.
// http.ErrAbortHandler is re-panicked so the connection is aborted.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	jsonBody, err := json.Marshal(apierr.InternalServerErr)
	if err != nil {
		panic(err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				log.ErrorContext(r.Context(), "panic", slog.Any("recover", rvr),
					slog.String("stack", string(debug.Stack())))

				if r.Header.Get("Connection") == "Upgrade" {
					return
				}
				if wantsHTML(r) {
					http.Error(w, apierr.InternalServerErr.Message, http.StatusInternalServerError)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				//nolint:errcheck
				w.Write(jsonBody)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func wantsHTML(r *http.Request) bool {
	return !strings.HasPrefix(r.URL.Path, "/api/") && strings.Contains(r.Header.Get("Accept"), "text/html")
}
