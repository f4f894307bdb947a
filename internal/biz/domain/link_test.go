package domain

import (
	"strings"
	"testing"
)

func TestContextLine(t *testing.T) {
	link := &Link{ID: 7, URL: "https://example.com", Summary: "An example page"}
	got := link.ContextLine()
	want := "ID: 7 | URL: <https://example.com> | Summary: An example page"
	if got != want {
		t.Errorf("ContextLine() = %q, want %q", got, want)
	}
}

func TestContextLineTruncatesSummary(t *testing.T) {
	link := &Link{ID: 1, URL: "https://example.com", Summary: strings.Repeat("x", 500)}
	got := link.ContextLine()
	want := "ID: 1 | URL: <https://example.com> | Summary: " + strings.Repeat("x", 200)
	if got != want {
		t.Errorf("summary not capped at 200: len=%d", len(got))
	}
}

func TestContextLineOmitsEmptyParts(t *testing.T) {
	link := &Link{ID: 3, URL: "https://example.com"}
	got := link.ContextLine()
	want := "ID: 3 | URL: <https://example.com>"
	if got != want {
		t.Errorf("ContextLine() = %q, want %q", got, want)
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Product/Service", "Product/Service"},
		{"product/service", "Product/Service"},
		{"NEWS/MEDIA", "News/Media"},
		{"other", "other"},
		{"OTHER", "other"},
		{"made-up label", "other"},
		{"", "other"},
		{"  ", "other"},
	}
	for _, tt := range tests {
		if got := NormalizeCategory(tt.in); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("short string changed: %q", got)
	}
	if got := Truncate("hello", 3); got != "hel" {
		t.Errorf("Truncate = %q, want %q", got, "hel")
	}
	// Multibyte runes are never split
	if got := Truncate("héllo", 2); got != "hé" {
		t.Errorf("Truncate = %q, want %q", got, "hé")
	}
}
