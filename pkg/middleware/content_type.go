package middleware

import (
	"mime"
	"net/http"

	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/logger"
)

const jsonMediaType = "application/json"

// ContentTypeValidation requires application/json on POST, PUT and PATCH
// requests that carry a body. Action endpoints such as /verify may be posted
// empty.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasBody(r) {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != jsonMediaType {
				log.Warn("Rejected request body media type",
					"request_id", RequestID(r.Context()),
					"content_type", r.Header.Get("Content-Type"),
					"path", r.URL.Path,
					"method", r.Method,
				)
				writeError(w, apperrors.UnsupportedMediaType(jsonMediaType))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	default:
		return false
	}
}
