package editor

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ferrispad/ferrispad/internal/highlight"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(w, h)
	return s
}

func screenRow(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	var out []rune
	for x := 0; x < w; x++ {
		c, _, _, _ := s.GetContent(x, y)
		out = append(out, c)
	}
	return string(out)
}

func TestRenderShowsTextAndStatus(t *testing.T) {
	f := newFixture(t)
	f.ed.BindStyleTable(0, nil) // no-op before any document exists
	f.openTemp(t, "main.go", "package demo\nvar x = 1\n")
	f.drain()

	s := newSimScreen(t, 80, 6)
	defer s.Fini()
	f.ed.Render(s)

	row0 := screenRow(s, 0)
	if want := "package demo"; !strings.Contains(row0, want) {
		t.Fatalf("row 0 = %q, want it to contain %q", row0, want)
	}
	// Line numbers are on by default.
	if row0[0] != '1' {
		t.Fatalf("row 0 = %q, want a line number gutter", row0)
	}
	status := screenRow(s, 5)
	if !strings.Contains(status, "main.go") {
		t.Fatalf("status = %q, want the file name", status)
	}
	if !strings.Contains(status, "1:1") {
		t.Fatalf("status = %q, want the cursor position", status)
	}
}

func TestRenderColorsKeywords(t *testing.T) {
	f := newFixture(t)
	f.openTemp(t, "main.go", "var x = 1\n")
	f.drain()
	// Route the engine's style table to the renderer the way the app
	// host does.
	d := f.ed.activeDoc()
	f.ed.BindStyleTable(d.id, f.eng.StyleTable())

	s := newSimScreen(t, 40, 4)
	defer s.Fini()
	f.ed.Render(s)

	// Gutter is "1 " (two cells); "var" starts at x=2, "x" sits at x=6.
	_, _, kwStyle, _ := s.GetContent(2, 0)
	_, _, identStyle, _ := s.GetContent(6, 0)
	kwFg, _, _ := kwStyle.Decompose()
	idFg, _, _ := identStyle.Decompose()
	if kwFg == idFg {
		t.Fatal("keyword and identifier render with the same color")
	}
}

func TestRenderProgressBanner(t *testing.T) {
	f := newFixture(t)
	f.ed.OpenScratch()
	f.ed.SetProgressBanner("Highlighting large file...")

	s := newSimScreen(t, 60, 4)
	defer s.Fini()
	f.ed.Render(s)

	status := screenRow(s, 3)
	if !strings.Contains(status, "Highlighting large file") {
		t.Fatalf("status = %q, want the banner", status)
	}
}

func TestStatusShowsOffWhenDisabled(t *testing.T) {
	f := newFixture(t)
	f.openTemp(t, "main.go", "var x = 1\n")
	f.eng.SetEnabled(false)

	s := newSimScreen(t, 40, 4)
	defer s.Fini()
	f.ed.Render(s)

	status := screenRow(s, 3)
	if !strings.Contains(status, "off") {
		t.Fatalf("status = %q, want the highlight-off marker", status)
	}
}

var _ highlight.Host = (*stubHost)(nil)
