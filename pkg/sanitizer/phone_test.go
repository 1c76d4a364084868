package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{
			name:   "valid E.164 format",
			input:  "+639171234567",
			region: "PH",
			want:   "+639171234567",
		},
		{
			name:   "with spaces",
			input:  "+63 917 123 4567",
			region: "PH",
			want:   "+639171234567",
		},
		{
			name:   "local mobile format",
			input:  "0917-123-4567",
			region: "PH",
			want:   "+639171234567",
		},
		{
			name:   "local format falls back to PH",
			input:  "09171234567",
			region: "",
			want:   "+639171234567",
		},
		{
			name:   "US national format",
			input:  "(650) 253-0000",
			region: "US",
			want:   "+16502530000",
		},
		{
			name:   "foreign number with country code",
			input:  "+1 650 253 0000",
			region: "PH",
			want:   "+16502530000",
		},
		{
			name:   "leading and trailing spaces",
			input:  "  +639171234567  ",
			region: "ph",
			want:   "+639171234567",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:   "letters only",
			input:  "not-a-phone",
			region: "PH",
			want:   "",
		},
		{
			name:   "too short",
			input:  "123",
			region: "PH",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input, tt.region)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tt.input, tt.region, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	once := NormalizePhone("0917 123 4567", "PH")
	twice := NormalizePhone(once, "PH")
	if once != twice {
		t.Errorf("not idempotent: %q then %q", once, twice)
	}
}
