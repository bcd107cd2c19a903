package highlight

import "bytes"

// LineScanner iterates the lines of a text blob, terminators included,
// byte-exact: concatenating every yielded line reproduces the input. A
// trailing newline closes the final line rather than opening an empty
// one, matching the buffer's line count convention.
type LineScanner struct {
	text []byte
	pos  int
}

func NewLineScanner(text []byte) *LineScanner {
	return &LineScanner{text: text}
}

// NewLineScannerAt starts iteration at a byte offset, which must be a
// line start.
func NewLineScannerAt(text []byte, off int) *LineScanner {
	if off < 0 {
		off = 0
	}
	if off > len(text) {
		off = len(text)
	}
	return &LineScanner{text: text, pos: off}
}

// Next returns the next line, or false when the input is exhausted.
// The returned slice aliases the input.
func (s *LineScanner) Next() ([]byte, bool) {
	if s.pos >= len(s.text) {
		return nil, false
	}
	rest := s.text[s.pos:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		line := rest[:i+1]
		s.pos += i + 1
		return line, true
	}
	s.pos = len(s.text)
	return rest, true
}

// Offset returns the byte position of the next unread line.
func (s *LineScanner) Offset() int { return s.pos }
