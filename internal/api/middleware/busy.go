package middleware

import (
	"net/http"

	"github.com/cloo-solutions/ordlens/internal/api"
	"github.com/cloo-solutions/ordlens/internal/domain"
)

// BusyChecker reports whether a lookup is currently outstanding.
type BusyChecker interface {
	Busy() bool
}

// RejectWhenBusy answers 429 before the handler runs, so an upload body is
// never read while another lookup holds the in-flight slot. The dispatcher
// still guards the race between this check and the handler.
func RejectWhenBusy(checker BusyChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if checker.Busy() {
				api.HandleError(w, domain.ErrInFlight)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
