package editor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ferrispad/ferrispad/internal/config"
	"github.com/ferrispad/ferrispad/internal/grammar"
	"github.com/ferrispad/ferrispad/internal/highlight"
)

// stubHost collects deferred engine work so tests can run it by hand.
type stubHost struct {
	tokens []highlight.Token
	banner string
}

func (h *stubHost) PostDeferred(d time.Duration, tok highlight.Token) {
	h.tokens = append(h.tokens, tok)
}
func (h *stubHost) BindStyleTable(doc highlight.DocumentID, entries []highlight.StyleTableEntry) {
}
func (h *stubHost) RequestRedrawIfActive(doc highlight.DocumentID) {}
func (h *stubHost) ShowProgressBanner(text string)                 { h.banner = text }
func (h *stubHost) HideProgressBanner()                            { h.banner = "" }

type fixture struct {
	ed   *Editor
	eng  *highlight.Engine
	host *stubHost
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	ed := New(cfg)
	host := &stubHost{}
	eng := highlight.New(host, config.DefaultLanguages(),
		grammar.LoadTheme(cfg.Highlight.Theme), highlight.DefaultTuning())
	ed.SetEngine(eng)

	// BindStyleTable normally flows through the app host into the
	// editor; short-circuit it here.
	return &fixture{ed: ed, eng: eng, host: host}
}

func (f *fixture) drain() {
	for len(f.host.tokens) > 0 {
		tok := f.host.tokens[0]
		f.host.tokens = f.host.tokens[1:]
		f.eng.Tick(tok)
	}
}

func (f *fixture) openTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := f.ed.OpenFile(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func typeString(ed *Editor, s string) {
	for _, r := range s {
		if r == '\n' {
			ed.HandleKey(key(tcell.KeyEnter), 10)
		} else {
			ed.HandleKey(runeKey(r), 10)
		}
	}
}

func TestTypingBuildsContent(t *testing.T) {
	f := newFixture(t)
	f.ed.OpenScratch()
	typeString(f.ed, "ab\nc")

	d := f.ed.activeDoc()
	if got := d.buf.String(); got != "ab\nc" {
		t.Fatalf("content = %q, want %q", got, "ab\nc")
	}
	if d.cursor != 4 {
		t.Fatalf("cursor = %d, want 4", d.cursor)
	}
	if !d.dirty {
		t.Fatal("typing did not mark the document dirty")
	}
}

func TestBackspaceAndDelete(t *testing.T) {
	f := newFixture(t)
	f.ed.OpenScratch()
	typeString(f.ed, "héllo")

	f.ed.HandleKey(key(tcell.KeyBackspace2), 10)
	d := f.ed.activeDoc()
	if got := d.buf.String(); got != "héll" {
		t.Fatalf("after backspace: %q", got)
	}
	// Backspace over the two-byte é.
	f.ed.HandleKey(key(tcell.KeyBackspace2), 10)
	f.ed.HandleKey(key(tcell.KeyBackspace2), 10)
	f.ed.HandleKey(key(tcell.KeyBackspace2), 10)
	if got := d.buf.String(); got != "h" {
		t.Fatalf("after backspaces: %q", got)
	}

	f.ed.HandleKey(key(tcell.KeyHome), 10)
	f.ed.HandleKey(key(tcell.KeyDelete), 10)
	if got := d.buf.String(); got != "" {
		t.Fatalf("after delete: %q", got)
	}
	// Nothing left: both are no-ops.
	f.ed.HandleKey(key(tcell.KeyDelete), 10)
	f.ed.HandleKey(key(tcell.KeyBackspace2), 10)
	if d.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", d.cursor)
	}
}

func TestArrowMovementCrossesRunes(t *testing.T) {
	f := newFixture(t)
	f.ed.OpenScratch()
	typeString(f.ed, "aé")

	d := f.ed.activeDoc()
	f.ed.HandleKey(key(tcell.KeyLeft), 10)
	if d.cursor != 1 {
		t.Fatalf("cursor after left = %d, want 1", d.cursor)
	}
	f.ed.HandleKey(key(tcell.KeyRight), 10)
	if d.cursor != 3 {
		t.Fatalf("cursor after right = %d, want 3", d.cursor)
	}
}

func TestVerticalMovementKeepsColumn(t *testing.T) {
	f := newFixture(t)
	f.ed.OpenScratch()
	typeString(f.ed, "long line here\nab\nanother long one")

	d := f.ed.activeDoc()
	f.ed.HandleKey(key(tcell.KeyUp), 10)
	f.ed.HandleKey(key(tcell.KeyUp), 10)
	f.ed.HandleKey(key(tcell.KeyEnd), 10)
	// Cursor at end of line 0 (col 14). Down clamps to "ab", down again
	// restores the wanted column.
	f.ed.HandleKey(key(tcell.KeyDown), 10)
	if row, col := d.cursorRowCol(); row != 1 || col != 2 {
		t.Fatalf("row/col = %d/%d, want 1/2", row, col)
	}
	f.ed.HandleKey(key(tcell.KeyDown), 10)
	if row, col := d.cursorRowCol(); row != 2 || col != 14 {
		t.Fatalf("row/col = %d/%d, want 2/14", row, col)
	}
}

func TestHomeEnd(t *testing.T) {
	f := newFixture(t)
	f.ed.OpenScratch()
	typeString(f.ed, "hello\nworld")
	d := f.ed.activeDoc()

	f.ed.HandleKey(key(tcell.KeyHome), 10)
	if d.cursor != 6 {
		t.Fatalf("home cursor = %d, want 6", d.cursor)
	}
	f.ed.HandleKey(key(tcell.KeyEnd), 10)
	if d.cursor != 11 {
		t.Fatalf("end cursor = %d, want 11", d.cursor)
	}
}

func TestSaveWritesFile(t *testing.T) {
	f := newFixture(t)
	path := f.openTemp(t, "main.go", "package x\n")
	f.ed.HandleKey(key(tcell.KeyEnd), 10)
	typeString(f.ed, "x")
	f.drain()

	f.ed.HandleKey(key(tcell.KeyCtrlS), 10)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "package xx\n" {
		t.Fatalf("saved content = %q", got)
	}
	if f.ed.activeDoc().dirty {
		t.Fatal("save left the document dirty")
	}
}

func TestQuitArmsOnUnsavedChanges(t *testing.T) {
	f := newFixture(t)
	f.ed.OpenScratch()
	typeString(f.ed, "x")

	if f.ed.HandleKey(key(tcell.KeyCtrlQ), 10) {
		t.Fatal("first Ctrl+Q quit with unsaved changes")
	}
	if f.ed.status == "" {
		t.Fatal("no warning on armed quit")
	}
	if !f.ed.HandleKey(key(tcell.KeyCtrlQ), 10) {
		t.Fatal("second Ctrl+Q did not quit")
	}
}

func TestQuitImmediateWhenClean(t *testing.T) {
	f := newFixture(t)
	f.ed.OpenScratch()
	if !f.ed.HandleKey(key(tcell.KeyCtrlQ), 10) {
		t.Fatal("clean editor did not quit on Ctrl+Q")
	}
}

func TestThemeCycling(t *testing.T) {
	f := newFixture(t)
	f.ed.OpenScratch()
	before := f.ed.ThemeName()
	f.ed.HandleKey(key(tcell.KeyCtrlT), 10)
	if f.ed.ThemeName() == before {
		t.Fatal("theme did not change")
	}
	// Cycling the whole list returns to the start.
	for i := 1; i < len(config.Default().Highlight.Themes); i++ {
		f.ed.HandleKey(key(tcell.KeyCtrlT), 10)
	}
	if f.ed.ThemeName() != before {
		t.Fatalf("theme = %q after full cycle, want %q", f.ed.ThemeName(), before)
	}
}

func TestToggleHighlight(t *testing.T) {
	f := newFixture(t)
	f.openTemp(t, "main.go", "package x\n")
	if !f.eng.Enabled() {
		t.Fatal("highlighting off by default")
	}
	f.ed.HandleKey(key(tcell.KeyCtrlH), 10)
	if f.eng.Enabled() {
		t.Fatal("toggle did not disable highlighting")
	}
	f.ed.HandleKey(key(tcell.KeyCtrlH), 10)
	if !f.eng.Enabled() {
		t.Fatal("toggle did not re-enable highlighting")
	}
}

func TestDocumentCycling(t *testing.T) {
	f := newFixture(t)
	a := f.openTemp(t, "a.go", "package a\n")
	b := f.openTemp(t, "b.go", "package b\n")

	if f.ed.activeDoc().path != b {
		t.Fatal("last opened file is not active")
	}
	f.ed.HandleKey(key(tcell.KeyCtrlN), 10)
	if f.ed.activeDoc().path != a {
		t.Fatal("Ctrl+N did not switch documents")
	}
	f.ed.HandleKey(key(tcell.KeyCtrlW), 10)
	if len(f.ed.docs) != 1 || f.ed.activeDoc().path != b {
		t.Fatal("Ctrl+W did not close the active document")
	}
	// The last remaining document cannot be closed.
	f.ed.HandleKey(key(tcell.KeyCtrlW), 10)
	if len(f.ed.docs) != 1 {
		t.Fatal("closed the last document")
	}
}

func TestRestoreViewClamps(t *testing.T) {
	f := newFixture(t)
	path := f.openTemp(t, "main.go", "package x\nvar y = 1\n")

	f.ed.RestoreView(path, 9999, 9999)
	d := f.ed.activeDoc()
	if d.cursor != d.buf.Len() {
		t.Fatalf("cursor = %d, want clamped to %d", d.cursor, d.buf.Len())
	}
	if d.scroll != 1 {
		t.Fatalf("scroll = %d, want clamped to 1", d.scroll)
	}

	f.ed.RestoreView(path, -5, -5)
	if d.cursor != 0 || d.scroll != 0 {
		t.Fatalf("cursor/scroll = %d/%d, want 0/0", d.cursor, d.scroll)
	}
}

func TestScrollFollowsCursor(t *testing.T) {
	f := newFixture(t)
	f.ed.OpenScratch()
	for i := 0; i < 30; i++ {
		typeString(f.ed, "line\n")
	}
	d := f.ed.activeDoc()
	if d.scroll == 0 {
		t.Fatal("scroll did not follow the cursor down")
	}
	f.ed.HandleKey(key(tcell.KeyPgUp), 10)
	f.ed.HandleKey(key(tcell.KeyPgUp), 10)
	f.ed.HandleKey(key(tcell.KeyPgUp), 10)
	if d.scroll != 0 {
		t.Fatalf("scroll = %d after paging to the top, want 0", d.scroll)
	}
}
