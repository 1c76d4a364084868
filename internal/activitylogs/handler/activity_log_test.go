package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/export"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockActivityLogService struct {
	lastQuery listview.Query
	recorded  []*model.ActivityLogEntry
}

func (m *mockActivityLogService) List(ctx context.Context, q listview.Query) (listview.Page[*model.ActivityLogEntry], error) {
	m.lastQuery = q
	entries := []*model.ActivityLogEntry{{ID: "e1", Actor: "admin", Action: "Verified payment", Category: model.CategoryPayment}}
	return listview.Paginate(entries, q.Page, 10), nil
}

func (m *mockActivityLogService) Export(ctx context.Context, q listview.Query) (export.Table, error) {
	m.lastQuery = q
	return export.Table{Title: "Activity Log Report", Columns: []string{"Actor"}, Rows: []map[string]string{{"actor": "admin"}}}, nil
}

func (m *mockActivityLogService) Record(ctx context.Context, entry *model.ActivityLogEntry) error {
	if entry.Action == "" {
		return apperrors.Validation("Activity log validation failed", map[string]any{"fields": map[string]string{"action": "action is required"}})
	}
	entry.ID = "e-new"
	entry.Actor = "admin"
	m.recorded = append(m.recorded, entry)
	return nil
}

func (m *mockActivityLogService) Ingest(ctx context.Context, entry *model.ActivityLogEntry) error {
	return nil
}

func (m *mockActivityLogService) Purge(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type exportCounter struct{ resources []string }

func (e *exportCounter) ExportRendered(resource, format string) {
	e.resources = append(e.resources, resource+":"+format)
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func newTestRouter() (*mockActivityLogService, *exportCounter, *httprouter.Router) {
	svc := &mockActivityLogService{}
	exports := &exportCounter{}
	h := &ActivityLogHandler{service: svc, exports: exports, brand: "BondVoyage", log: logger.Discard()}
	router := httprouter.New()
	h.RegisterRoutes(router)
	return svc, exports, router
}

// ────────────────────────────────────────────────
// List
// ────────────────────────────────────────────────

func TestGetAll_DefaultsToNewest(t *testing.T) {
	svc, _, router := newTestRouter()

	rr := serve(router, http.MethodGet, "/api/v1/activity-logs", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if svc.lastQuery.Sort != listview.SortNewest {
		t.Errorf("sort = %q, want newest", svc.lastQuery.Sort)
	}
	if !strings.Contains(rr.Body.String(), `"total_items":1`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestGetAll_Filters(t *testing.T) {
	svc, _, router := newTestRouter()

	rr := serve(router, http.MethodGet, "/api/v1/activity-logs?category=Payment&status=Success&search=verified&sort=oldest&from=2025-01-01&to=2025-01-31", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	q := svc.lastQuery
	if q.Value("category") != "Payment" || q.Value("status") != "Success" {
		t.Errorf("filters = %v", q.Filters)
	}
	if q.Search != "verified" || q.Sort != listview.SortOldest {
		t.Errorf("search = %q, sort = %q", q.Search, q.Sort)
	}
	if q.Dates.From.IsZero() || q.Dates.To.IsZero() {
		t.Errorf("dates = %+v", q.Dates)
	}
}

func TestGetAll_InvalidSort(t *testing.T) {
	_, _, router := newTestRouter()

	rr := serve(router, http.MethodGet, "/api/v1/activity-logs?sort=sideways", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"valid", `{"action":"Signed in","category":"Auth"}`, http.StatusCreated, `"id":"e-new"`},
		{"missing action", `{"category":"Auth"}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"malformed", `{"action":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, router := newTestRouter()

			rr := serve(router, http.MethodPost, "/api/v1/activity-logs", tt.body)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want %s", rr.Body.String(), tt.wantBody)
			}
		})
	}
}

// ────────────────────────────────────────────────
// Export
// ────────────────────────────────────────────────

func TestExport(t *testing.T) {
	_, exports, router := newTestRouter()

	rr := serve(router, http.MethodGet, "/api/v1/activity-logs/export?format=csv&category=Payment", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), "attachment") {
		t.Errorf("disposition = %q", rr.Header().Get("Content-Disposition"))
	}
	if len(exports.resources) != 1 || exports.resources[0] != "activity_logs:csv" {
		t.Errorf("exports = %v", exports.resources)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	_, exports, router := newTestRouter()

	rr := serve(router, http.MethodGet, "/api/v1/activity-logs/export?format=docx", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if len(exports.resources) != 0 {
		t.Errorf("exports = %v", exports.resources)
	}
}
