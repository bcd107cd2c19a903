package highlight

import (
	"testing"

	"github.com/ferrispad/ferrispad/internal/grammar"
)

func TestCheckpointsPushAtSet(t *testing.T) {
	syn := grammar.Lookup("go")
	theme := grammar.LoadTheme("monokai")
	var c Checkpoints

	ps := grammar.NewParseState(syn)
	hs := grammar.NewHighlightState(theme)
	c.Push(ps, hs)
	c.Push(ps, hs)
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}

	gp, gh := c.At(1)
	if !gp.Equal(ps) || !gh.Equal(hs) {
		t.Fatal("At returned different states than pushed")
	}

	other := grammar.NewHighlightState(grammar.LoadTheme("dracula"))
	c.Set(1, ps, other)
	_, gh = c.At(1)
	if gh.Equal(hs) {
		t.Fatal("Set did not overwrite entry")
	}
}

func TestCheckpointsTruncateClear(t *testing.T) {
	syn := grammar.Lookup("go")
	theme := grammar.LoadTheme("monokai")
	var c Checkpoints
	for i := 0; i < 5; i++ {
		c.Push(grammar.NewParseState(syn), grammar.NewHighlightState(theme))
	}

	c.Truncate(10)
	if c.Len() != 5 {
		t.Fatalf("truncate past end changed len to %d", c.Len())
	}
	c.Truncate(2)
	if c.Len() != 2 {
		t.Fatalf("len after truncate = %d, want 2", c.Len())
	}
	c.Truncate(-1)
	if c.Len() != 0 {
		t.Fatalf("len after negative truncate = %d, want 0", c.Len())
	}

	c.Push(grammar.NewParseState(syn), grammar.NewHighlightState(theme))
	c.SetLineCount(42)
	c.Clear()
	if c.Len() != 0 || c.LineCount() != 0 {
		t.Fatalf("clear left len=%d lineCount=%d", c.Len(), c.LineCount())
	}
}

func TestCheckpointsNearestBefore(t *testing.T) {
	syn := grammar.Lookup("go")
	theme := grammar.LoadTheme("monokai")
	var c Checkpoints
	for i := 0; i < 3; i++ { // checkpoints for lines 0, 128, 256
		c.Push(grammar.NewParseState(syn), grammar.NewHighlightState(theme))
	}

	cases := []struct {
		line, idx, start int
	}{
		{0, 0, 0},
		{127, 0, 0},
		{128, 1, 128},
		{200, 1, 128},
		{256, 2, 256},
		{5000, 2, 256}, // clamps to the last entry
	}
	for _, tc := range cases {
		idx, start := c.NearestBefore(tc.line, 128)
		if idx != tc.idx || start != tc.start {
			t.Fatalf("NearestBefore(%d) = (%d, %d), want (%d, %d)",
				tc.line, idx, start, tc.idx, tc.start)
		}
	}
}
