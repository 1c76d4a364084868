package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "bondvoyage/pkg/errors"
)

// timeoutWriter wraps http.ResponseWriter to prevent writes after timeout
type timeoutWriter struct {
	http.ResponseWriter
	mu         sync.Mutex
	timedOut   bool
	written    bool
	statusCode int
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.written {
		return
	}

	tw.statusCode = code
	tw.written = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}

	if !tw.written {
		tw.statusCode = http.StatusOK
		tw.written = true
		tw.ResponseWriter.WriteHeader(http.StatusOK)
	}

	return tw.ResponseWriter.Write(b)
}

// PathTimeout overrides the default timeout for paths ending in Suffix.
type PathTimeout struct {
	Suffix  string
	Timeout time.Duration
}

func RequestTimeout(timeout time.Duration, overrides ...PathTimeout) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeoutFor(r.URL.Path, timeout, overrides))
			defer cancel()

			r = r.WithContext(ctx)

			tw := &timeoutWriter{ResponseWriter: w}

			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case <-done:
				return
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if !tw.written {
					writeError(w, apperrors.Timeout("Request timeout"))
					tw.written = true
				}
			}
		})
	}
}

func timeoutFor(path string, fallback time.Duration, overrides []PathTimeout) time.Duration {
	for _, o := range overrides {
		if strings.HasSuffix(path, o.Suffix) {
			return o.Timeout
		}
	}
	return fallback
}
