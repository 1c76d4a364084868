package export

import (
	"testing"
	"time"
)

func TestMoney(t *testing.T) {
	tests := map[float64]string{
		0:          "₱0.00",
		5:          "₱5.00",
		999.5:      "₱999.50",
		1000:       "₱1,000.00",
		12345.678:  "₱12,345.68",
		1234567.05: "₱1,234,567.05",
		-2500:      "-₱2,500.00",
	}
	for in, want := range tests {
		if got := Money(in); got != want {
			t.Errorf("Money(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestDate(t *testing.T) {
	if Date(time.Time{}) != "" || DateTime(time.Time{}) != "" {
		t.Error("zero time must render empty")
	}
	ts := time.Date(2025, 3, 9, 14, 5, 0, 0, time.UTC)
	if Date(ts) != "2025-03-09" || DateTime(ts) != "2025-03-09 14:05" {
		t.Errorf("Date/DateTime = %q/%q", Date(ts), DateTime(ts))
	}
}
