// Package editor implements the FerrisPad editing view: open documents,
// cursor and scroll state, key handling, and terminal rendering. The
// highlight engine colors text through per-document style buffers; the
// editor only reads them.
package editor

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/ferrispad/ferrispad/internal/config"
	"github.com/ferrispad/ferrispad/internal/grammar"
	"github.com/ferrispad/ferrispad/internal/highlight"
	"github.com/ferrispad/ferrispad/internal/logger"
	"github.com/ferrispad/ferrispad/internal/textbuf"
)

// document is one open file with its cursor and view state.
type document struct {
	id     highlight.DocumentID
	path   string
	buf    *textbuf.Buffer
	styles *textbuf.StyleBuffer

	cursor  int // byte offset
	wantCol int // preferred column for vertical movement
	scroll  int // first visible line
	dirty   bool

	table []highlight.StyleTableEntry
}

// Editor owns the open documents and the status line. It runs entirely
// on the event-loop thread.
type Editor struct {
	cfg    config.Config
	engine *highlight.Engine

	docs   []*document
	active int
	nextID highlight.DocumentID

	themeIdx int

	status    string
	banner    string
	branch    string
	quitArmed bool

	needRender bool
}

func New(cfg config.Config) *Editor {
	themeIdx := 0
	for i, name := range cfg.Highlight.Themes {
		if name == cfg.Highlight.Theme {
			themeIdx = i
			break
		}
	}
	return &Editor{cfg: cfg, themeIdx: themeIdx, nextID: 1, needRender: true}
}

// SetEngine attaches the highlight engine. Must be called before any
// document is opened.
func (e *Editor) SetEngine(eng *highlight.Engine) { e.engine = eng }

// SetGitBranch updates the branch shown in the status line.
func (e *Editor) SetGitBranch(branch string) { e.branch = branch }

// SetProgressBanner sets the long-operation banner; an empty string
// hides it.
func (e *Editor) SetProgressBanner(text string) {
	e.banner = text
	e.needRender = true
}

// BindStyleTable installs the style table for a document's renderer.
func (e *Editor) BindStyleTable(id highlight.DocumentID, entries []highlight.StyleTableEntry) {
	if d := e.doc(id); d != nil {
		d.table = entries
	}
}

// MarkDocChanged flags a repaint for a document's view.
func (e *Editor) MarkDocChanged(id highlight.DocumentID) {
	if e.activeDoc() != nil && e.activeDoc().id == id {
		e.needRender = true
	}
}

// MarkResized flags a repaint after a terminal resize.
func (e *Editor) MarkResized() { e.needRender = true }

// ConsumeRedraw reports and clears the pending-repaint flag.
func (e *Editor) ConsumeRedraw() bool {
	r := e.needRender
	e.needRender = false
	return r
}

func (e *Editor) doc(id highlight.DocumentID) *document {
	for _, d := range e.docs {
		if d.id == id {
			return d
		}
	}
	return nil
}

func (e *Editor) activeDoc() *document {
	if e.active < 0 || e.active >= len(e.docs) {
		return nil
	}
	return e.docs[e.active]
}

// OpenFile loads a file into a new document and hands it to the
// highlight engine. A missing file opens as an empty named buffer.
func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	d := &document{
		id:     e.nextID,
		path:   path,
		buf:    textbuf.NewBuffer(data),
		styles: textbuf.NewStyleBuffer(),
	}
	e.nextID++
	e.docs = append(e.docs, d)
	e.active = len(e.docs) - 1
	e.engine.OpenDocument(d.id, d.buf, d.styles, path)
	logger.Info("opened file", "path", path, "bytes", d.buf.Len())
	e.needRender = true
	return nil
}

// OpenScratch opens an unnamed empty buffer.
func (e *Editor) OpenScratch() {
	d := &document{
		id:     e.nextID,
		buf:    textbuf.NewBuffer(nil),
		styles: textbuf.NewStyleBuffer(),
	}
	e.nextID++
	e.docs = append(e.docs, d)
	e.active = len(e.docs) - 1
	e.engine.OpenDocument(d.id, d.buf, d.styles, "")
	e.needRender = true
}

// CloseActive detaches the active document. The last document cannot
// be closed; callers quit instead.
func (e *Editor) CloseActive() {
	if len(e.docs) < 2 {
		return
	}
	d := e.docs[e.active]
	e.engine.CloseDocument(d.id)
	e.docs = append(e.docs[:e.active], e.docs[e.active+1:]...)
	if e.active >= len(e.docs) {
		e.active = len(e.docs) - 1
	}
	e.needRender = true
}

// Save writes the active document back to its path.
func (e *Editor) Save() {
	d := e.activeDoc()
	if d == nil {
		return
	}
	if d.path == "" {
		e.status = "no file name"
		return
	}
	if err := os.WriteFile(d.path, d.buf.Bytes(), 0o644); err != nil {
		logger.Error("save failed", "path", d.path, "error", err)
		e.status = err.Error()
		return
	}
	d.dirty = false
	e.status = fmt.Sprintf("wrote %s (%d bytes)", d.path, d.buf.Len())
}

// NextTheme cycles through the configured theme list.
func (e *Editor) NextTheme() {
	themes := e.cfg.Highlight.Themes
	if len(themes) == 0 {
		return
	}
	e.themeIdx = (e.themeIdx + 1) % len(themes)
	name := themes[e.themeIdx]
	e.engine.SetTheme(grammar.LoadTheme(name))
	e.status = "theme: " + name
	e.needRender = true
}

// ToggleHighlight flips syntax highlighting globally.
func (e *Editor) ToggleHighlight() {
	on := !e.engine.Enabled()
	e.engine.SetEnabled(on)
	if on {
		e.status = "highlighting on"
	} else {
		e.status = "highlighting off"
	}
	e.needRender = true
}

func (e *Editor) nextDoc() {
	if len(e.docs) < 2 {
		return
	}
	e.active = (e.active + 1) % len(e.docs)
	e.needRender = true
}

// FileView is the persisted view of an open document.
type FileView struct {
	Path   string
	Cursor int
	Scroll int
}

// FileViews returns the view state of every named document, for
// session persistence.
func (e *Editor) FileViews() []FileView {
	var views []FileView
	for _, d := range e.docs {
		if d.path == "" {
			continue
		}
		views = append(views, FileView{Path: d.path, Cursor: d.cursor, Scroll: d.scroll})
	}
	return views
}

// RestoreView applies a remembered cursor and scroll to the document
// opened from path, clamping to the current content.
func (e *Editor) RestoreView(path string, cursor, scroll int) {
	for _, d := range e.docs {
		if d.path != path {
			continue
		}
		if cursor < 0 {
			cursor = 0
		}
		if cursor > d.buf.Len() {
			cursor = d.buf.Len()
		}
		d.cursor = cursor
		if scroll < 0 {
			scroll = 0
		}
		if max := d.buf.LineCount() - 1; scroll > max && max >= 0 {
			scroll = max
		}
		d.scroll = scroll
		e.needRender = true
		return
	}
}

// ThemeName returns the name of the active theme.
func (e *Editor) ThemeName() string {
	if len(e.cfg.Highlight.Themes) == 0 {
		return e.cfg.Highlight.Theme
	}
	return e.cfg.Highlight.Themes[e.themeIdx]
}

// Dirty reports whether any document has unsaved changes.
func (e *Editor) Dirty() bool {
	for _, d := range e.docs {
		if d.dirty {
			return true
		}
	}
	return false
}

// HandleKey processes one key event. It returns true when the editor
// should quit.
func (e *Editor) HandleKey(ev *tcell.EventKey, viewHeight int) bool {
	e.status = ""
	defer func() { e.needRender = true }()

	if ev.Key() != tcell.KeyCtrlQ {
		e.quitArmed = false
	}
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		if e.Dirty() && !e.quitArmed {
			e.quitArmed = true
			e.status = "unsaved changes, Ctrl+Q again to quit"
			return false
		}
		return true
	case tcell.KeyCtrlS:
		e.Save()
	case tcell.KeyCtrlT:
		e.NextTheme()
	case tcell.KeyCtrlH:
		e.ToggleHighlight()
	case tcell.KeyCtrlN:
		e.nextDoc()
	case tcell.KeyCtrlW:
		e.CloseActive()
	case tcell.KeyLeft:
		e.moveLeft()
	case tcell.KeyRight:
		e.moveRight()
	case tcell.KeyUp:
		e.moveVertical(-1, viewHeight)
	case tcell.KeyDown:
		e.moveVertical(1, viewHeight)
	case tcell.KeyPgUp:
		e.moveVertical(-viewHeight, viewHeight)
	case tcell.KeyPgDn:
		e.moveVertical(viewHeight, viewHeight)
	case tcell.KeyHome:
		e.moveLineEdge(false)
	case tcell.KeyEnd:
		e.moveLineEdge(true)
	case tcell.KeyEnter:
		e.insert("\n")
	case tcell.KeyTab:
		e.insert("\t")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.backspace()
	case tcell.KeyDelete:
		e.deleteForward()
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
			e.insert(string(ev.Rune()))
		}
	}
	if d := e.activeDoc(); d != nil {
		e.ensureVisible(d, viewHeight)
	}
	return false
}

func (e *Editor) insert(s string) {
	d := e.activeDoc()
	if d == nil {
		return
	}
	d.buf.Insert(d.cursor, []byte(s))
	d.cursor += len(s)
	d.dirty = true
	d.wantCol = -1
}

func (e *Editor) backspace() {
	d := e.activeDoc()
	if d == nil || d.cursor == 0 {
		return
	}
	_, n := utf8.DecodeLastRune(d.buf.Bytes()[:d.cursor])
	d.buf.Delete(d.cursor-n, d.cursor)
	d.cursor -= n
	d.dirty = true
	d.wantCol = -1
}

func (e *Editor) deleteForward() {
	d := e.activeDoc()
	if d == nil || d.cursor >= d.buf.Len() {
		return
	}
	_, n := utf8.DecodeRune(d.buf.Bytes()[d.cursor:])
	d.buf.Delete(d.cursor, d.cursor+n)
	d.dirty = true
	d.wantCol = -1
}

func (e *Editor) moveLeft() {
	d := e.activeDoc()
	if d == nil || d.cursor == 0 {
		return
	}
	_, n := utf8.DecodeLastRune(d.buf.Bytes()[:d.cursor])
	d.cursor -= n
	d.wantCol = -1
}

func (e *Editor) moveRight() {
	d := e.activeDoc()
	if d == nil || d.cursor >= d.buf.Len() {
		return
	}
	_, n := utf8.DecodeRune(d.buf.Bytes()[d.cursor:])
	d.cursor += n
	d.wantCol = -1
}

func (e *Editor) moveVertical(delta, viewHeight int) {
	d := e.activeDoc()
	if d == nil {
		return
	}
	row, col := d.cursorRowCol()
	if d.wantCol >= 0 {
		col = d.wantCol
	} else {
		d.wantCol = col
	}
	row += delta
	if row < 0 {
		row = 0
	}
	if max := d.buf.LineCount() - 1; row > max {
		row = max
		if row < 0 {
			row = 0
		}
	}
	d.cursor = d.offsetAt(row, col)
	e.ensureVisible(d, viewHeight)
}

func (e *Editor) moveLineEdge(end bool) {
	d := e.activeDoc()
	if d == nil {
		return
	}
	row, _ := d.cursorRowCol()
	if !end {
		d.cursor = d.buf.LineStart(row)
	} else {
		line := d.buf.Line(row)
		n := len(line)
		if n > 0 && line[n-1] == '\n' {
			n--
		}
		d.cursor = d.buf.LineStart(row) + n
	}
	d.wantCol = -1
}

func (e *Editor) ensureVisible(d *document, viewHeight int) {
	if viewHeight < 1 {
		return
	}
	row, _ := d.cursorRowCol()
	if row < d.scroll {
		d.scroll = row
	}
	if row >= d.scroll+viewHeight {
		d.scroll = row - viewHeight + 1
	}
	if d.scroll < 0 {
		d.scroll = 0
	}
}

// cursorRowCol returns the cursor's line index and rune column.
func (d *document) cursorRowCol() (row, col int) {
	row = d.buf.LineAt(d.cursor)
	start := d.buf.LineStart(row)
	col = utf8.RuneCount(d.buf.Bytes()[start:d.cursor])
	return row, col
}

// offsetAt returns the byte offset of a rune column on a line, clamping
// to the line's last content byte.
func (d *document) offsetAt(row, col int) int {
	start := d.buf.LineStart(row)
	line := d.buf.Line(row)
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	off := 0
	for i := 0; i < col && off < len(line); i++ {
		_, n := utf8.DecodeRune(line[off:])
		off += n
	}
	return start + off
}
