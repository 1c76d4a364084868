package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Service: "bookings"})

	log.Info("booking created", "id", "abc")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record[SERVICE] != "bookings" {
		t.Errorf("expected service attribute 'bookings', got %v", record[SERVICE])
	}
	if record["id"] != "abc" {
		t.Errorf("expected id attribute 'abc', got %v", record["id"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Level: WARN, Format: TEXT})

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_MasksContactDetails(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf})

	log.Warn("Duplicate user email", "email", "ana.reyes@example.com", "phone", "+639171234567", "id", "u-1")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["email"] != "a***@example.com" {
		t.Errorf("email = %v", record["email"])
	}
	if record["phone"] != "*********4567" {
		t.Errorf("phone = %v", record["phone"])
	}
	if record["id"] != "u-1" {
		t.Errorf("unmasked attribute changed: %v", record["id"])
	}
	if ts, _ := record[slog.TimeKey].(string); !strings.HasSuffix(ts, "Z") {
		t.Errorf("time should be UTC, got %q", ts)
	}
}

func TestMask(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"123", "***"},
		{"09171234567", "*******4567"},
		{"x@bondvoyage.ph", "x***@bondvoyage.ph"},
		{"@nolocal", "****ocal"},
	}
	for _, tt := range tests {
		if got := Mask(tt.in); got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
