package util

import "testing"

func TestSafeAtoi(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{" 42 ", 42},
		{"-7", -7},
		{"", 0},
		{"abc", 0},
		{"12.5", 0},
	}
	for _, tt := range tests {
		if got := SafeAtoi(tt.in); got != tt.want {
			t.Errorf("SafeAtoi(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCleanNumericString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.500 €", "12500"},
		{"85.000 km", "85000"},
		{"130 CV", "130"},
		{"no digits", ""},
	}
	for _, tt := range tests {
		if got := CleanNumericString(tt.in); got != tt.want {
			t.Errorf("CleanNumericString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
