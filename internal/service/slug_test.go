package service

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "Income Fund", want: "income-fund"},
		{input: "  Café  Crème  Fund ", want: "cafe-creme-fund"},
		{input: "Gilt / Edged -- Fund 2025", want: "gilt-edged-fund-2025"},
		{input: "***", want: ""},
		{input: "货币基金", want: ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.input); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}

	long := Slugify(strings.Repeat("word ", 60))
	if len(long) > maxSlugLength || strings.HasSuffix(long, "-") {
		t.Fatalf("expected trimmed slug within limit, got %q", long)
	}
}

func TestPaginationBounds(t *testing.T) {
	if got := normalizePage(0); got != 1 {
		t.Fatalf("normalizePage(0) = %d", got)
	}
	if got := normalizePerPage(0, 20); got != 20 {
		t.Fatalf("normalizePerPage(0, 20) = %d", got)
	}
	if got := normalizePerPage(500, 20); got != 100 {
		t.Fatalf("normalizePerPage(500, 20) = %d", got)
	}
	if got := calculateTotalPages(0, 10); got != 1 {
		t.Fatalf("calculateTotalPages(0, 10) = %d", got)
	}
	if got := calculateTotalPages(21, 10); got != 3 {
		t.Fatalf("calculateTotalPages(21, 10) = %d", got)
	}
}
