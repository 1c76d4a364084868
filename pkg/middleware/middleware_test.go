package middleware

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func decodeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Code
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.ERROR, Output: &buf})

	h := Recovery(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if code := decodeCode(t, rec); code != apperrors.CodeInternal {
		t.Errorf("code = %s", code)
	}
	if !strings.Contains(buf.String(), "Panic recovered") {
		t.Error("panic was not logged")
	}
}

func TestRecovery_ReportsRequestID(t *testing.T) {
	h := RequestLogging(logger.Discard())(Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req.Header.Set(RequestIDHeader, "0b7a3f4e-2c1d-4e5f-8a9b-1c2d3e4f5a6b")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"request_id":"0b7a3f4e-2c1d-4e5f-8a9b-1c2d3e4f5a6b"`) {
		t.Errorf("body = %s, want request id detail", rec.Body.String())
	}
}

func TestRequestLogging_RequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("generated id %q not echoed (%q)", seen, rec.Header().Get(RequestIDHeader))
	}

	const incoming = "0b7e7f4e-5a57-4f8e-8d0f-1df0ab1c2d3e"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != incoming {
		t.Errorf("incoming id not reused: %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "<script>" {
		t.Error("malformed incoming id should be replaced")
	}
}

func TestRequestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			time.Sleep(50 * time.Millisecond)
		case <-time.After(time.Second):
			w.WriteHeader(http.StatusOK)
		}
	})

	h := RequestTimeout(20*time.Millisecond, PathTimeout{Suffix: "/export", Timeout: 2 * time.Second})(slow)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/export", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("export override: status = %d, want 200", rec.Code)
	}
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Discard())(okHandler())

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{"json post", http.MethodPost, `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"form post", http.MethodPost, `a=b`, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"missing header", http.MethodPatch, `{}`, "", http.StatusUnsupportedMediaType},
		{"empty action post", http.MethodPost, ``, "", http.StatusOK},
		{"get", http.MethodGet, ``, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/x", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestIdempotency(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int32
	h := Idempotency(store, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"call":` + string(rune('0'+n)) + `}`))
	}))

	send := func(path, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set(IdempotencyHeader, key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := send("/payments", "k1")
	second := send("/payments", "k1")
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Errorf("replay mismatch: %d %q vs %q", second.Code, second.Body.String(), first.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Error("replayed response should be marked")
	}

	send("/other", "k1")
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("keys must be scoped by path, calls = %d", calls)
	}
}

func TestIdempotency_InFlightConflict(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	if !store.Reserve("POST /payments k") {
		t.Fatal("first reserve should succeed")
	}
	h := Idempotency(store, "")(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{}`))
	req.Header.Set(IdempotencyHeader, "k")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	store.Release("POST /payments k")
	if !store.Reserve("POST /payments k") {
		t.Error("reserve after release should succeed")
	}
}

// finishingTwinStore completes a twin request for key just before the first
// Reserve, the window between the middleware's lookup and its reservation.
type finishingTwinStore struct {
	*InMemoryIdempotencyStore
	twin *CachedResponse
}

func (s *finishingTwinStore) Reserve(key string) bool {
	if s.twin != nil {
		s.Set(key, s.twin)
		s.twin = nil
	}
	return s.InMemoryIdempotencyStore.Reserve(key)
}

func TestIdempotency_TwinFinishedBeforeReserve(t *testing.T) {
	store := &finishingTwinStore{
		InMemoryIdempotencyStore: NewInMemoryIdempotencyStore(time.Minute),
		twin:                     &CachedResponse{StatusCode: http.StatusCreated, Body: []byte(`{"call":1}`)},
	}
	defer store.Stop()

	var calls int32
	h := Idempotency(store, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{}`))
	req.Header.Set(IdempotencyHeader, "k")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("handler ran %d times, want the twin's response replayed", calls)
	}
	if rec.Code != http.StatusCreated || rec.Body.String() != `{"call":1}` || rec.Header().Get("Idempotent-Replayed") != "true" {
		t.Errorf("response = %d %q", rec.Code, rec.Body.String())
	}
	if !store.Reserve("POST /payments k") {
		t.Error("reservation must be released after replay")
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute, nil, logger.Discard())
	defer limiter.Stop()
	h := RateLimit(limiter)(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "198.51.100.4:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}

	other := httptest.NewRequest(http.MethodGet, "/x", nil)
	other.RemoteAddr = "198.51.100.5:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("other client limited: %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Errorf("ClientIP() = %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Errorf("ClientIP() with XFF = %q", got)
	}
}

func TestMaxRequestSize(t *testing.T) {
	var readErr error
	h := MaxRequestSize(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = new(bytes.Buffer).ReadFrom(r.Body)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))

	var maxErr *http.MaxBytesError
	if readErr == nil || !stderrors.As(readErr, &maxErr) {
		t.Errorf("expected MaxBytesError, got %v", readErr)
	}
}
