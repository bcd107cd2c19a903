package grammar

import (
	"testing"

	"github.com/ferrispad/ferrispad/internal/config"
)

func TestDetectByLanguagesConfig(t *testing.T) {
	langs := config.DefaultLanguages()

	cases := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"lib.rs", "rust"},
		{"tool.py", "python"},
		{"config.toml", "toml"},
		{"notes.md", "markdown"},
		{"script.sh", "shell"},
	}
	for _, c := range cases {
		syn := Detect(c.path, langs)
		if syn == nil || syn.Name != c.want {
			t.Fatalf("Detect(%q) = %v, want %q", c.path, syn, c.want)
		}
	}
}

func TestDetectUnknownIsNil(t *testing.T) {
	langs := config.DefaultLanguages()
	if syn := Detect("notes.txt", langs); syn != nil {
		t.Fatalf("Detect(notes.txt) = %q, want nil", syn.Name)
	}
	if syn := Detect("", langs); syn != nil {
		t.Fatalf("Detect(\"\") = %q, want nil", syn.Name)
	}
}

func TestDetectChromaFallback(t *testing.T) {
	// Empty languages config: detection falls through to chroma.
	var langs config.Languages
	syn := Detect("main.go", langs)
	if syn == nil || syn.Name != "go" {
		t.Fatalf("Detect(main.go) via chroma = %v, want go", syn)
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	if Lookup("Go") != Go {
		t.Fatalf("Lookup(Go) failed")
	}
	if Lookup("RUST") != Rust {
		t.Fatalf("Lookup(RUST) failed")
	}
	if Lookup("nope") != nil {
		t.Fatalf("Lookup(nope) != nil")
	}
}
