package resolve

import "testing"

func TestExtractCwd_LastMatchWins(t *testing.T) {
	content := `{"cwd": "/srv/one"} some output {"cwd": "/srv/two/work"}`

	cwd, ok := ExtractCwd(content)
	if !ok {
		t.Fatal("expected a match")
	}
	if cwd != "/srv/two/work" {
		t.Errorf("expected /srv/two/work, got %q", cwd)
	}
}

func TestExtractCwd_WhitespaceAroundColon(t *testing.T) {
	cases := []string{
		`"cwd":"/srv/app"`,
		`"cwd" : "/srv/app"`,
		`"cwd"  :  "/srv/app"`,
	}
	for _, content := range cases {
		cwd, ok := ExtractCwd(content)
		if !ok || cwd != "/srv/app" {
			t.Errorf("content %q: got (%q, %v)", content, cwd, ok)
		}
	}
}

func TestExtractCwd_NormalizesBackslashes(t *testing.T) {
	cwd, ok := ExtractCwd(`"cwd": "C:\\work\\projects\\demo"`)
	if !ok {
		t.Fatal("expected a match")
	}
	if cwd != "C:/work/projects/demo" {
		t.Errorf("expected C:/work/projects/demo, got %q", cwd)
	}
}

func TestExtractCwd_NoMatch(t *testing.T) {
	if cwd, ok := ExtractCwd("no working directory here"); ok {
		t.Errorf("expected no match, got %q", cwd)
	}
	if cwd, ok := ExtractCwd(""); ok {
		t.Errorf("expected no match on empty content, got %q", cwd)
	}
}
