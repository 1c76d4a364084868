package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/export"
	"bondvoyage/pkg/listview"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NotFoundWithID("Booking", "abc"), http.StatusNotFound, apperrors.CodeNotFound},
		{"validation", apperrors.Validation("bad", nil), http.StatusUnprocessableEntity, apperrors.CodeValidation},
		{"conflict", apperrors.Conflict("race"), http.StatusConflict, apperrors.CodeConflict},
		{"wrapped app error", errors.Join(errors.New("ctx"), apperrors.InvalidInput("bad page")), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"plain error", errors.New("mongo exploded"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body apperrors.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
			if strings.Contains(body.Message, "mongo") {
				t.Errorf("internal error leaked: %q", body.Message)
			}
		})
	}
}

func TestWritePage(t *testing.T) {
	page := listview.Paginate([]string{"a", "b", "c"}, 2, 2)
	page.FilterKey = "k1"

	rec := httptest.NewRecorder()
	if err := WritePage(rec, page); err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}

	var body struct {
		Data       []string   `json:"data"`
		Pagination Pagination `json:"pagination"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0] != "c" {
		t.Errorf("data = %v", body.Data)
	}
	p := body.Pagination
	if p.TotalItems != 3 || p.TotalPages != 2 || p.From != 3 || p.To != 3 || p.FilterKey != "k1" {
		t.Errorf("pagination = %+v", p)
	}
}

func TestWriteExport(t *testing.T) {
	table := export.Table{
		Title:   "Users Report",
		Columns: []string{"Name"},
		Rows:    []map[string]string{{"name": "Ana"}},
	}
	meta := export.Meta{Brand: "BondVoyage", GeneratedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}

	rec := httptest.NewRecorder()
	if err := WriteExport(rec, export.FormatCSV, table, meta); err != nil {
		t.Fatalf("WriteExport() error = %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="users-report-2025-01-02.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "Ana") {
		t.Error("body missing row")
	}

	rec = httptest.NewRecorder()
	_ = WriteExport(rec, export.FormatHTML, table, meta)
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline;") {
		t.Errorf("printable export should be inline, got %q", cd)
	}
}
