package report

import "testing"

func TestFormatDate(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2024-03-15", "15/03/2024"},
		{" 2024-03-05T10:00:00Z ", "05/03/2024"},
		{"2024-12-01T08:30:00", "01/12/2024"},
		{"15/03/2024", "15/03/2024"},
		{"mars 2024", "mars 2024"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := FormatDate(tc.in); got != tc.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	tests := []struct{ date, clock, want string }{
		{"2024-03-15", "14:30", "15/03/2024 à 14:30"},
		{"2024-03-15", "09:05:59", "15/03/2024 à 09:05"},
		{"2024-03-15", "", "15/03/2024"},
		{"", "14:30", "14:30"},
		{"", "", ""},
	}
	for _, tc := range tests {
		if got := FormatDateTime(tc.date, tc.clock, " à "); got != tc.want {
			t.Errorf("FormatDateTime(%q, %q) = %q, want %q", tc.date, tc.clock, got, tc.want)
		}
	}
}

func TestOrPlaceholder(t *testing.T) {
	if OrPlaceholder("") != "-" || OrPlaceholder("  ") != "-" {
		t.Fatalf("blank values should become the placeholder")
	}
	if OrPlaceholder("x") != "x" {
		t.Fatalf("non-blank values should be kept")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"éèàçù", 2, "éè"},
		{"abc", 3, "abc"},
		{"abc", 10, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tc := range tests {
		if got := Truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
