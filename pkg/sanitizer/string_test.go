package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"leading and trailing", "  Ada Lovelace  ", "Ada Lovelace"},
		{"inner run collapsed", "Ada   \t Lovelace", "Ada Lovelace"},
		{"newlines collapsed", "Ada\nLovelace", "Ada Lovelace"},
		{"already clean", "Ada Lovelace", "Ada Lovelace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeNameForComparison(t *testing.T) {
	if NormalizeNameForComparison("  Keynotes ") != NormalizeNameForComparison("keynotes") {
		t.Error("comparison form should be case and whitespace insensitive")
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain e164", "+14155550100", "+14155550100"},
		{"dashes and spaces", "+1 415-555-0100", "+14155550100"},
		{"parentheses", "+1 (415) 555.0100", "+14155550100"},
		{"plus not leading left as-is", "14+155550100", "14+155550100"},
		{"letters left as-is", "+1415CALLNOW", "+1415CALLNOW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.expected {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
