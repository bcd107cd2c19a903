package highlight

import (
	"bytes"

	"github.com/ferrispad/ferrispad/internal/grammar"
)

// Highlighter runs the lexer over lines and turns colored spans into
// style tag bytes. It holds no per-document state: everything mutable
// travels in the (ParseState, HighlightState) pair, which is what lets
// the engine resume from a checkpoint.
type Highlighter struct {
	styles   *StyleMap
	interval int
}

func NewHighlighter(styles *StyleMap, interval int) *Highlighter {
	if interval < 1 {
		interval = 1
	}
	return &Highlighter{styles: styles, interval: interval}
}

// Interval returns the checkpoint spacing in lines.
func (h *Highlighter) Interval() int { return h.interval }

// Line highlights a single line and returns exactly len(line) tag
// bytes plus the states for the next line. A lexer that emits the wrong
// number of bytes is clamped and padded with the default tag, so a bad
// grammar can cost styling but never length parity.
func (h *Highlighter) Line(line []byte, ps grammar.ParseState, hs grammar.HighlightState) ([]byte, grammar.ParseState, grammar.HighlightState) {
	ops, nps := ps.ParseLine(line)
	spans, nhs := hs.Apply(ops)

	tags := make([]byte, 0, len(line))
	for _, sp := range spans {
		if sp.Len <= 0 {
			continue
		}
		tag := h.styles.TagFor(sp.Color)
		for k := 0; k < sp.Len && len(tags) < len(line); k++ {
			tags = append(tags, tag)
		}
	}
	for len(tags) < len(line) {
		tags = append(tags, DefaultTag)
	}
	return tags, nps, nhs
}

// RangeResult is the outcome of a Range pass.
type RangeResult struct {
	Tags      []byte
	Parse     grammar.ParseState
	Highlight grammar.HighlightState
	Lines     int
}

// Range highlights up to maxLines consecutive lines from the scanner
// (all remaining lines when maxLines is negative). startLine is the
// absolute index of the scanner's next line. When cps is non-nil, the
// before-states of every line on an interval boundary are appended to
// it.
func (h *Highlighter) Range(sc *LineScanner, startLine, maxLines int, ps grammar.ParseState, hs grammar.HighlightState, cps *Checkpoints) RangeResult {
	var tags []byte
	line := startLine
	for maxLines < 0 || line-startLine < maxLines {
		lb, ok := sc.Next()
		if !ok {
			break
		}
		if cps != nil && line%h.interval == 0 {
			cps.Push(ps, hs)
		}
		lt, nps, nhs := h.Line(lb, ps, hs)
		tags = append(tags, lt...)
		ps, hs = nps, nhs
		line++
	}
	return RangeResult{Tags: tags, Parse: ps, Highlight: hs, Lines: line - startLine}
}

// Full highlights an entire text from the grammar's initial states,
// recording checkpoints along the way. A nil syntax yields all-default
// tags and no checkpoints; empty text yields empty tags and the single
// initial checkpoint.
func (h *Highlighter) Full(text []byte, syn *grammar.Syntax, theme *grammar.Theme) ([]byte, *Checkpoints) {
	cps := &Checkpoints{}
	if syn == nil {
		return bytes.Repeat([]byte{DefaultTag}, len(text)), cps
	}
	ps := grammar.NewParseState(syn)
	hs := grammar.NewHighlightState(theme)
	res := h.Range(NewLineScanner(text), 0, -1, ps, hs, cps)
	if cps.Len() == 0 {
		cps.Push(ps, hs)
	}
	cps.SetLineCount(res.Lines)
	return res.Tags, cps
}
