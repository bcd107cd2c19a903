package textbuf

// StyleBuffer is the style channel paired with a text buffer: one tag
// byte per text byte. The highlight engine owns its contents; the
// renderer only reads them.
type StyleBuffer struct {
	data []byte
}

func NewStyleBuffer() *StyleBuffer {
	return &StyleBuffer{}
}

func (s *StyleBuffer) Len() int { return len(s.data) }

// Bytes returns the tag bytes. Callers must not mutate the slice.
func (s *StyleBuffer) Bytes() []byte { return s.data }

// TagAt returns the tag for a text byte, or fallback when out of range.
func (s *StyleBuffer) TagAt(pos int, fallback byte) byte {
	if pos < 0 || pos >= len(s.data) {
		return fallback
	}
	return s.data[pos]
}

// Replace substitutes the tags in [start, end) with tags. Out-of-range
// bounds clamp.
func (s *StyleBuffer) Replace(start, end int, tags []byte) {
	if start < 0 {
		start = 0
	}
	if end > len(s.data) {
		end = len(s.data)
	}
	if end < start {
		end = start
	}
	if end-start == len(tags) {
		copy(s.data[start:end], tags)
		return
	}
	out := make([]byte, 0, len(s.data)-(end-start)+len(tags))
	out = append(out, s.data[:start]...)
	out = append(out, tags...)
	out = append(out, s.data[end:]...)
	s.data = out
}

func (s *StyleBuffer) Insert(pos int, tags []byte) {
	s.Replace(pos, pos, tags)
}

func (s *StyleBuffer) Delete(start, end int) {
	s.Replace(start, end, nil)
}
