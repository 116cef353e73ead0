package middleware

import (
	"mime"
	"net/http"
	"strings"

	"sarpras/pkg/logger"
)

// ContentTypeValidation requires JSON bodies on writes. Paths under one of
// multipartPrefixes take multipart/form-data instead. Body-less writes pass.
func ContentTypeValidation(log *logger.Logger, multipartPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresContentType(r) {
				next.ServeHTTP(w, r)
				return
			}

			want := "application/json"
			for _, prefix := range multipartPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					want = "multipart/form-data"
					break
				}
			}

			got, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if got != want {
				log.Warn("Invalid Content-Type header",
					"request_id", RequestIDFromContext(r.Context()),
					"content_type", got,
					"path", r.URL.Path,
					"method", r.Method,
				)
				writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be "+want)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	}
	return false
}
