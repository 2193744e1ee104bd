package utils

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Trimmed  ", "trimmed"},
		{"Go 1.21 Released!", "go-1-21-released"},
		{"multiple---dashes", "multiple-dashes"},
		{"UPPER case", "upper-case"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyNonASCIIFallsBack(t *testing.T) {
	got := Slugify("日本語")
	if got == "" {
		t.Fatal("slug must never be empty")
	}
}

func TestSlugifyTruncatesLongInput(t *testing.T) {
	got := Slugify(strings.Repeat("a", 500))
	if len(got) > 200 {
		t.Errorf("slug too long: %d chars", len(got))
	}
}

func TestUniqueSlugKeepsBase(t *testing.T) {
	got := UniqueSlug("hello-world")
	if !strings.HasPrefix(got, "hello-world-") {
		t.Errorf("UniqueSlug lost the base: %q", got)
	}
	if got == UniqueSlug("hello-world") {
		t.Error("two UniqueSlug calls returned the same value")
	}
}

func TestUniqueUint(t *testing.T) {
	got := UniqueUint([]uint{1, 2, 2, 3, 1})
	if len(got) != 3 {
		t.Fatalf("expected 3 unique values, got %v", got)
	}
	seen := map[uint]bool{}
	for _, v := range got {
		if seen[v] {
			t.Fatalf("duplicate %d in %v", v, got)
		}
		seen[v] = true
	}
}
