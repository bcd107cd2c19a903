// Package textbuf holds the editor's document buffers: a byte-addressed
// UTF-8 text buffer with a line index, and the parallel style buffer the
// highlight engine keeps in sync with it.
package textbuf

import "sort"

// Buffer is a mutable text container. Positions are byte offsets;
// invalid UTF-8 is carried as opaque bytes.
type Buffer struct {
	data []byte

	// lineStarts[i] is the byte offset of line i. A trailing newline
	// does not open a new line: "a\n" is one line, "a\nb" is two.
	lineStarts []int

	editFn func(pos, inserted, deleted int)
}

func NewBuffer(text []byte) *Buffer {
	b := &Buffer{data: append([]byte(nil), text...)}
	b.reindex()
	return b
}

// SetEditFunc installs the edit notification hook. Passing nil removes
// it. The hook fires after the buffer has mutated.
func (b *Buffer) SetEditFunc(fn func(pos, inserted, deleted int)) {
	b.editFn = fn
}

func (b *Buffer) Len() int { return len(b.data) }

// Bytes returns the buffer contents. Callers must not mutate the slice.
func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) String() string { return string(b.data) }

func (b *Buffer) LineCount() int { return len(b.lineStarts) }

// LineStart returns the byte offset of a line. Lines past the end clamp
// to the buffer length.
func (b *Buffer) LineStart(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(b.lineStarts) {
		return len(b.data)
	}
	return b.lineStarts[line]
}

// LineAt returns the index of the line containing the byte at pos.
// Positions at or past the end map to the last line.
func (b *Buffer) LineAt(pos int) int {
	if len(b.lineStarts) == 0 || pos <= 0 {
		return 0
	}
	if pos >= len(b.data) {
		return len(b.lineStarts) - 1
	}
	// First line start greater than pos, minus one.
	i := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > pos
	})
	return i - 1
}

// Line returns the bytes of line i including its terminator, if any.
func (b *Buffer) Line(i int) []byte {
	if i < 0 || i >= len(b.lineStarts) {
		return nil
	}
	start := b.lineStarts[i]
	end := len(b.data)
	if i+1 < len(b.lineStarts) {
		end = b.lineStarts[i+1]
	}
	return b.data[start:end]
}

// Replace substitutes the bytes in [start, end) with text and fires the
// edit hook. Out-of-range bounds clamp.
func (b *Buffer) Replace(start, end int, text []byte) {
	if start < 0 {
		start = 0
	}
	if end > len(b.data) {
		end = len(b.data)
	}
	if end < start {
		end = start
	}
	deleted := end - start
	if deleted == 0 && len(text) == 0 {
		return
	}
	out := make([]byte, 0, len(b.data)-deleted+len(text))
	out = append(out, b.data[:start]...)
	out = append(out, text...)
	out = append(out, b.data[end:]...)
	b.data = out
	b.reindex()
	if b.editFn != nil {
		b.editFn(start, len(text), deleted)
	}
}

func (b *Buffer) Insert(pos int, text []byte) {
	b.Replace(pos, pos, text)
}

func (b *Buffer) Delete(start, end int) {
	b.Replace(start, end, nil)
}

func (b *Buffer) reindex() {
	b.lineStarts = b.lineStarts[:0]
	if len(b.data) == 0 {
		return
	}
	b.lineStarts = append(b.lineStarts, 0)
	for i, c := range b.data {
		if c == '\n' && i+1 < len(b.data) {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
}
