package middleware

import (
	"fmt"
	"net/http"

	"github.com/cloo-solutions/ordlens/internal/api"
)

// MaxBodyBytes limits request body size. Uploads are the only requests with
// a body, so the limit is the upload limit and the answer names it.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit && r.ContentLength != -1 {
				api.Error(w, http.StatusRequestEntityTooLarge, uploadTooLargeMessage(limit))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// uploadTooLargeMessage is the 413 text for an upload over limit bytes.
func uploadTooLargeMessage(limit int64) string {
	return fmt.Sprintf("upload exceeds the %d byte limit", limit)
}
