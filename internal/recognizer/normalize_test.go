package recognizer

import "testing"

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jiří", "Jiri"},
		{"Müller", "Muller"},
		{"Dvořák", "Dvorak"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := RemoveDiacritics(tc.input); got != tc.expected {
			t.Errorf("RemoveDiacritics(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestNormalizePersonName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Novák Jan", "novak jan"},
		{"Horáková-Svobodová", "horakova svobodova"},
		{"MÜLLER", "muller"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := NormalizePersonName(tc.input); got != tc.expected {
			t.Errorf("NormalizePersonName(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
