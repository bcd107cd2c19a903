// Package highlight implements the incremental syntax highlighting
// engine: it keeps a per-document style buffer in sync with its text
// buffer under live editing, using sparse parse-state checkpoints so an
// edit only re-lexes a bounded neighborhood instead of the whole file.
//
// Everything here runs cooperatively on the host's event-loop thread.
// There is no locking and no goroutine; long work is split into chunks
// that the host re-enters through Tick.
package highlight

import "github.com/ferrispad/ferrispad/internal/grammar"

// DefaultTag is the style tag of table entry 0, the theme's default
// foreground.
const DefaultTag byte = 'A'

// StyleTableEntry is one slot of the style table handed to the host.
// Tags index into the table; tag 'A' is entry 0.
type StyleTableEntry struct {
	Color grammar.RGB
	Font  int
	Size  int
}

// StyleMap lazily maps foreground colors to single-byte style tags.
// It starts with one default entry and grows as highlighting meets new
// colors, so simple languages keep a tiny table. The tag alphabet is
// capped; once full, the last tag absorbs every further color.
type StyleMap struct {
	entries []StyleTableEntry
	tags    map[grammar.RGB]byte
	max     int
	font    int
	size    int
	changed bool
}

// NewStyleMap returns a map holding only the default entry. max bounds
// the number of distinct tags; values outside [1, 26] clamp to 26.
func NewStyleMap(def grammar.RGB, font, size, max int) *StyleMap {
	if max < 1 || max > 26 {
		max = 26
	}
	m := &StyleMap{max: max, font: font, size: size}
	m.reset(def)
	return m
}

func (m *StyleMap) reset(def grammar.RGB) {
	m.entries = m.entries[:0]
	m.entries = append(m.entries, StyleTableEntry{Color: def, Font: m.font, Size: m.size})
	m.tags = map[grammar.RGB]byte{def: DefaultTag}
	m.changed = true
}

// Reset drops every entry except a fresh default. Used on theme change.
func (m *StyleMap) Reset(def grammar.RGB) {
	m.reset(def)
}

// TagFor returns the tag for a color, allocating the next free tag on
// first sight. When the table is full the last tag is reused, so two
// distinct theme colors may render identically.
func (m *StyleMap) TagFor(c grammar.RGB) byte {
	if tag, ok := m.tags[c]; ok {
		return tag
	}
	if len(m.entries) >= m.max {
		return DefaultTag + byte(m.max-1)
	}
	tag := DefaultTag + byte(len(m.entries))
	m.entries = append(m.entries, StyleTableEntry{Color: c, Font: m.font, Size: m.size})
	m.tags[c] = tag
	m.changed = true
	return tag
}

// Entries returns the style table in tag order. The host binds this to
// its display widget; callers must not mutate it.
func (m *StyleMap) Entries() []StyleTableEntry {
	return m.entries
}

// Len returns the number of allocated entries.
func (m *StyleMap) Len() int { return len(m.entries) }

// SetFont rewrites the font and size of every entry in place. Colors
// and tags are untouched, so cached highlight state stays valid.
func (m *StyleMap) SetFont(font, size int) {
	m.font, m.size = font, size
	for i := range m.entries {
		m.entries[i].Font = font
		m.entries[i].Size = size
	}
	m.changed = true
}

// Changed reports whether the table grew or was rewritten since the
// host last bound it.
func (m *StyleMap) Changed() bool { return m.changed }

// ClearChanged is called by the engine after the host re-binds the
// style table.
func (m *StyleMap) ClearChanged() { m.changed = false }
