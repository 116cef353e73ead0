package middleware

import (
	"net/http"
	"strings"
)

// MaxRequestSize caps request bodies. Paths under uploadPrefix get uploadLimit.
func MaxRequestSize(limit int64, uploadPrefix string, uploadLimit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := limit
			if uploadPrefix != "" && strings.HasPrefix(r.URL.Path, uploadPrefix) {
				n = uploadLimit
			}
			if r.ContentLength > n {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
