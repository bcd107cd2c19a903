package highlight

import "github.com/ferrispad/ferrispad/internal/grammar"

// Checkpoints stores parse and highlight states sampled every interval
// lines. Entry i is the state immediately before parsing line
// i*interval; entry 0 is always the grammar's initial state. Per-line
// states for a big file would cost hundreds of megabytes; sampling
// bounds resume work at one interval of re-lexing.
type Checkpoints struct {
	parse []grammar.ParseState
	hl    []grammar.HighlightState

	// lineCount is the document line count at the moment the list was
	// produced. Non-empty lists hold ceil(lineCount/interval) entries,
	// never fewer than one.
	lineCount int
}

func (c *Checkpoints) Len() int { return len(c.parse) }

func (c *Checkpoints) LineCount() int { return c.lineCount }

func (c *Checkpoints) SetLineCount(n int) { c.lineCount = n }

func (c *Checkpoints) Push(ps grammar.ParseState, hs grammar.HighlightState) {
	c.parse = append(c.parse, ps)
	c.hl = append(c.hl, hs)
}

// At returns entry i. The caller keeps i in range.
func (c *Checkpoints) At(i int) (grammar.ParseState, grammar.HighlightState) {
	return c.parse[i], c.hl[i]
}

// Set overwrites entry i with freshly computed states.
func (c *Checkpoints) Set(i int, ps grammar.ParseState, hs grammar.HighlightState) {
	c.parse[i] = ps
	c.hl[i] = hs
}

// Truncate drops entries past count.
func (c *Checkpoints) Truncate(count int) {
	if count < 0 {
		count = 0
	}
	if count >= len(c.parse) {
		return
	}
	c.parse = c.parse[:count]
	c.hl = c.hl[:count]
}

func (c *Checkpoints) Clear() {
	c.parse = nil
	c.hl = nil
	c.lineCount = 0
}

// NearestBefore returns the index of the latest checkpoint at or before
// line, and the line that checkpoint belongs to. The list must be
// non-empty.
func (c *Checkpoints) NearestBefore(line, interval int) (idx, startLine int) {
	if interval < 1 {
		interval = 1
	}
	idx = line / interval
	if idx >= len(c.parse) {
		idx = len(c.parse) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx, idx * interval
}
