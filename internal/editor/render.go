package editor

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/ferrispad/ferrispad/internal/grammar"
	"github.com/ferrispad/ferrispad/internal/highlight"
)

// Render paints the active document and the status line. The text area
// occupies every row but the last.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w == 0 || h == 0 {
		return
	}
	base := e.baseStyle()
	s.Fill(' ', base)

	d := e.activeDoc()
	viewHeight := h - 1
	if d != nil && viewHeight > 0 {
		e.renderDoc(s, d, w, viewHeight, base)
	}
	e.renderStatus(s, d, w, h-1)
	s.Show()
}

// ViewHeight returns the number of text rows for the current screen
// size.
func (e *Editor) ViewHeight(s tcell.Screen) int {
	_, h := s.Size()
	if h < 1 {
		return 0
	}
	return h - 1
}

func (e *Editor) baseStyle() tcell.Style {
	st := tcell.StyleDefault
	theme := e.engine.Theme()
	if bg, ok := theme.Background(); ok {
		st = st.Background(rgbColor(bg))
	}
	return st.Foreground(rgbColor(theme.Default()))
}

func (e *Editor) renderDoc(s tcell.Screen, d *document, w, viewHeight int, base tcell.Style) {
	gutter := 0
	if e.cfg.Editor.LineNumbers != "off" {
		gutter = numWidth(d.buf.LineCount()) + 1
	}
	gutterStyle := base.Dim(true)
	tabWidth := e.cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 4
	}

	for y := 0; y < viewHeight; y++ {
		row := d.scroll + y
		if row >= d.buf.LineCount() {
			break
		}
		if gutter > 0 {
			num := fmt.Sprintf("%*d", gutter-1, row+1)
			for i, r := range num {
				s.SetContent(i, y, r, nil, gutterStyle)
			}
		}
		start := d.buf.LineStart(row)
		line := d.buf.Line(row)
		if n := len(line); n > 0 && line[n-1] == '\n' {
			line = line[:n-1]
		}
		x := gutter
		for off := 0; off < len(line) && x < w; {
			r, n := utf8.DecodeRune(line[off:])
			st := e.styleFor(d, start+off, base)
			if r == '\t' {
				next := gutter + ((x-gutter)/tabWidth+1)*tabWidth
				for ; x < next && x < w; x++ {
					s.SetContent(x, y, ' ', nil, st)
				}
			} else {
				s.SetContent(x, y, r, nil, st)
				x++
			}
			off += n
		}
	}

	// Cursor position, accounting for tabs and the gutter.
	cx, cy := e.cursorScreenPos(d, gutter, tabWidth)
	if cy >= 0 && cy < viewHeight {
		s.ShowCursor(cx, cy)
	} else {
		s.HideCursor()
	}
}

// styleFor resolves the style tag under a text byte through the
// document's bound style table.
func (e *Editor) styleFor(d *document, pos int, base tcell.Style) tcell.Style {
	tag := d.styles.TagAt(pos, highlight.DefaultTag)
	i := int(tag - highlight.DefaultTag)
	if i <= 0 || i >= len(d.table) {
		return base
	}
	return base.Foreground(rgbColor(d.table[i].Color))
}

func (e *Editor) cursorScreenPos(d *document, gutter, tabWidth int) (x, y int) {
	row, _ := d.cursorRowCol()
	start := d.buf.LineStart(row)
	line := d.buf.Bytes()[start:d.cursor]
	x = gutter
	for off := 0; off < len(line); {
		r, n := utf8.DecodeRune(line[off:])
		if r == '\t' {
			x = gutter + ((x-gutter)/tabWidth+1)*tabWidth
		} else {
			x++
		}
		off += n
	}
	return x, row - d.scroll
}

func (e *Editor) renderStatus(s tcell.Screen, d *document, w, y int) {
	if y < 0 {
		return
	}
	st := tcell.StyleDefault.Reverse(true)

	left := "[scratch]"
	if d != nil && d.path != "" {
		left = d.path
	}
	if d != nil && d.dirty {
		left += " [+]"
	}
	if e.branch != "" {
		left += "  " + e.branch
	}
	if len(e.docs) > 1 {
		left += fmt.Sprintf("  (%d/%d)", e.active+1, len(e.docs))
	}

	middle := e.status
	if e.banner != "" {
		middle = e.banner
	}

	right := ""
	if d != nil {
		row, col := d.cursorRowCol()
		lang := e.engine.SyntaxName(d.id)
		if lang == "" {
			lang = "plain"
		}
		if !e.engine.Enabled() {
			lang = "off"
		}
		right = fmt.Sprintf("%s  %d:%d", lang, row+1, col+1)
	}

	line := left
	if middle != "" {
		line += "  |  " + middle
	}
	pad := w - utf8.RuneCountInString(line) - utf8.RuneCountInString(right)
	if pad < 1 {
		// Shorten the path so the right side stays visible.
		if d != nil && d.path != "" {
			line = strings.Replace(line, d.path, filepath.Base(d.path), 1)
			pad = w - utf8.RuneCountInString(line) - utf8.RuneCountInString(right)
		}
		if pad < 1 {
			pad = 1
		}
	}
	line += strings.Repeat(" ", pad) + right

	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, st)
		x++
	}
}

func rgbColor(c grammar.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func numWidth(n int) int {
	w := 1
	for n >= 10 {
		n /= 10
		w++
	}
	return w
}
