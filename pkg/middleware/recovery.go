package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/logger"
)

// Recovery turns a handler panic into a 500 carrying the request id, so the
// admin UI can quote it when reporting the failure.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				requestID := RequestID(r.Context())
				log.Error("Panic recovered",
					"request_id", requestID,
					"panic", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				appErr := apperrors.Internal("Internal server error", nil)
				if requestID != "" {
					appErr = appErr.WithDetails(map[string]any{"request_id": requestID})
				}
				writeError(w, appErr)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, err *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode())
	_, _ = w.Write(err.ToJSON())
}
