package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Juan Dela Cruz  ",
			want:  "Juan Dela Cruz",
		},
		{
			name:  "multiple spaces between words",
			input: "Juan    Dela Cruz",
			want:  "Juan Dela Cruz",
		},
		{
			name:  "tabs and newlines",
			input: "Juan\t\nDela Cruz",
			want:  "Juan Dela Cruz",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve accents",
			input: " Señora Peñafrancia ",
			want:  "Señora Peñafrancia",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeText_KeepsLines(t *testing.T) {
	got := NormalizeText("  Bring   sunscreen.\n  Pickup at  6 AM  ")
	want := "Bring sunscreen.\nPickup at 6 AM"
	if got != want {
		t.Errorf("NormalizeText() = %q, want %q", got, want)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana.Reyes@Example.COM "); got != "ana.reyes@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizePageSlug(t *testing.T) {
	tests := map[string]string{
		"Tour Packages":    "tour-packages",
		"/tour-packages/":  "tour-packages",
		"  payment_guide ": "payment-guide",
		"":                 "",
	}
	for in, want := range tests {
		if got := NormalizePageSlug(in); got != want {
			t.Errorf("NormalizePageSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeProofReference(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"gc 1029 3847 56", "GC1029384756"},
		{"http://WWW.Receipts.example.com/r/123/?utm_source=sms", "https://receipts.example.com/r/123"},
		{"https://cdn.example.com/proof.jpg?v=2", "https://cdn.example.com/proof.jpg?v=2"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeProofReference(tt.input); got != tt.want {
			t.Errorf("NormalizeProofReference(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1999.999, 2000},
		{1500.123, 1500.12},
		{-5, 0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := NormalizeAmount(tt.in); got != tt.want {
			t.Errorf("NormalizeAmount(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if ClampPercent(150) != 100 || ClampPercent(-1) != 0 || ClampPercent(30) != 30 {
		t.Error("ClampPercent out of range")
	}
}
