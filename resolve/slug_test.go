package resolve

import "testing"

func TestNormalizeSlug_Aliases(t *testing.T) {
	r := NewDefault()

	cases := map[string]string{
		"chad":    "ai-chad-5401",
		"ai-jen":  "ai-jen-5402",
		"ai-rhea": "ai-rhea-5403",
	}
	for in, want := range cases {
		if got := r.NormalizeSlug(in); got != want {
			t.Errorf("NormalizeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeSlug_UnknownPassesThrough(t *testing.T) {
	r := NewDefault()

	if got := r.NormalizeSlug("my-other-project"); got != "my-other-project" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestNormalizeSlug_Idempotent(t *testing.T) {
	r := NewDefault()

	once := r.NormalizeSlug("jen")
	twice := r.NormalizeSlug(once)
	if once != twice {
		t.Errorf("normalization not idempotent: %q vs %q", once, twice)
	}
}
