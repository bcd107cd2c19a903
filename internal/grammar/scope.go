// Package grammar supplies the syntax definitions and themes consumed by
// the highlight engine. Parsing is line oriented: a ParseState consumes
// one line and emits scope runs, a HighlightState resolves scope runs to
// colored spans. Both states are small values; copying one is the only
// way to save a resumable position, which is what the engine's sparse
// checkpoints rely on.
package grammar

// Scope classifies a run of bytes within a line.
type Scope uint8

const (
	ScopeDefault Scope = iota
	ScopeComment
	ScopeString
	ScopeNumber
	ScopeKeyword
	ScopeType
	ScopeFunction
	ScopeConstant
	ScopeOperator
	ScopePunct

	scopeCount
)

// ScopeOp is a run of Len bytes sharing one scope. Runs emitted for a
// line always cover the line exactly, terminator included.
type ScopeOp struct {
	Scope Scope
	Len   int
}

// RGB is a foreground color. The zero value is black.
type RGB struct {
	R, G, B uint8
}

// StyledSpan is a run of Len bytes sharing one foreground color.
type StyledSpan struct {
	Color RGB
	Len   int
}

// appendOp extends ops with a run, coalescing adjacent runs of the same
// scope.
func appendOp(ops []ScopeOp, s Scope, n int) []ScopeOp {
	if n <= 0 {
		return ops
	}
	if len(ops) > 0 && ops[len(ops)-1].Scope == s {
		ops[len(ops)-1].Len += n
		return ops
	}
	return append(ops, ScopeOp{Scope: s, Len: n})
}
