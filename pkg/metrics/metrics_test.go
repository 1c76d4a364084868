package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/bookings": "/api/v1/bookings",
		"/api/v1/bookings/id/507f1f77bcf86cd799439011":                                                      "/api/v1/bookings/id/:id",
		"/api/v1/bookings/id/507f1f77bcf86cd799439011/payments/4f7c2a8e-3b1d-4c5e-9f6a-7b8c9d0e1f2a/verify": "/api/v1/bookings/id/:id/payments/:paymentId/verify",
		"/api/v1/faqs/page/tour-packages":                                                                   "/api/v1/faqs/page/:page",
		"/api/v1/users/id/not-an-oid":                                                                       "/api/v1/users/id/:id",
	}
	for in, want := range tests {
		if got := Route(in); got != want {
			t.Errorf("Route(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	m := New("test")
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/507f1f77bcf86cd799439011", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/507f1f77bcf86cd799439012", nil))

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/api/v1/bookings/id/:id", "404"))
	if got != 2 {
		t.Errorf("requests_total = %v, want 2", got)
	}
	if v := testutil.ToFloat64(m.httpInFlight); v != 0 {
		t.Errorf("in flight = %v, want 0", v)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New("activitylogs")
	m.ObserveEvent("consumed", "success", 5*time.Millisecond)
	m.ExportRendered("bookings", "csv")
	m.RetentionRun(42, nil)
	m.RetentionRun(0, errors.New("mongo down"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`bondvoyage_events_total{direction="consumed",outcome="success",service="activitylogs"} 1`,
		`bondvoyage_exports_total{format="csv",resource="bookings",service="activitylogs"} 1`,
		`bondvoyage_retention_deleted_total{service="activitylogs"} 42`,
		`bondvoyage_retention_runs_total{outcome="failed",service="activitylogs"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
