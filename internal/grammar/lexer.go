package grammar

import "bytes"

type lexMode uint8

const (
	modeNormal lexMode = iota
	modeBlockComment
	modeRawString    // inside a raw string (or markdown code fence)
	modeTripleString // inside a python-style triple-quoted string
)

// ParseState is the lexer position between two lines. It is a small
// comparable value; assignment clones it.
type ParseState struct {
	syn   *Syntax
	mode  lexMode
	delim byte
}

// NewParseState returns the initial state for a syntax. A nil syntax is
// valid and scopes every byte as default.
func NewParseState(s *Syntax) ParseState {
	return ParseState{syn: s}
}

// Syntax returns the grammar this state lexes.
func (ps ParseState) Syntax() *Syntax { return ps.syn }

// Equal reports whether two states would lex identically from here on.
func (ps ParseState) Equal(o ParseState) bool { return ps == o }

// ParseLine lexes one line, terminator included, and returns scope runs
// covering every byte of the line plus the state at the start of the
// next line.
func (ps ParseState) ParseLine(line []byte) ([]ScopeOp, ParseState) {
	if len(line) == 0 {
		return nil, ps
	}
	syn := ps.syn
	if syn == nil {
		return []ScopeOp{{ScopeDefault, len(line)}}, ps
	}
	if syn.markdown {
		return ps.parseMarkdownLine(line)
	}

	var ops []ScopeOp
	i := 0
	for i < len(line) {
		switch ps.mode {
		case modeBlockComment:
			if j := bytes.Index(line[i:], []byte(syn.blockClose)); j >= 0 {
				ops = appendOp(ops, ScopeComment, j+len(syn.blockClose))
				i += j + len(syn.blockClose)
				ps.mode = modeNormal
			} else {
				ops = appendOp(ops, ScopeComment, len(line)-i)
				i = len(line)
			}

		case modeRawString:
			if j := bytes.IndexByte(line[i:], syn.rawDelim); j >= 0 {
				ops = appendOp(ops, ScopeString, j+1)
				i += j + 1
				ps.mode = modeNormal
			} else {
				ops = appendOp(ops, ScopeString, len(line)-i)
				i = len(line)
			}

		case modeTripleString:
			closer := []byte{ps.delim, ps.delim, ps.delim}
			if j := bytes.Index(line[i:], closer); j >= 0 {
				ops = appendOp(ops, ScopeString, j+3)
				i += j + 3
				ps.mode = modeNormal
				ps.delim = 0
			} else {
				ops = appendOp(ops, ScopeString, len(line)-i)
				i = len(line)
			}

		default:
			ops, i, ps = lexNormal(syn, line, i, ops, ps)
		}
	}
	return ops, ps
}

// lexNormal consumes one token starting at i, or switches mode and
// returns so the outer loop picks up the multi-line construct.
func lexNormal(syn *Syntax, line []byte, i int, ops []ScopeOp, ps ParseState) ([]ScopeOp, int, ParseState) {
	c := line[i]

	for _, lc := range syn.lineComments {
		if hasPrefixAt(line, i, lc) {
			ops = appendOp(ops, ScopeComment, len(line)-i)
			return ops, len(line), ps
		}
	}

	if syn.blockOpen != "" && hasPrefixAt(line, i, syn.blockOpen) {
		ops = appendOp(ops, ScopeComment, len(syn.blockOpen))
		ps.mode = modeBlockComment
		return ops, i + len(syn.blockOpen), ps
	}

	if syn.tripleQuote && (c == '"' || c == '\'') &&
		i+2 < len(line) && line[i+1] == c && line[i+2] == c {
		ops = appendOp(ops, ScopeString, 3)
		ps.mode = modeTripleString
		ps.delim = c
		return ops, i + 3, ps
	}

	if syn.rawDelim != 0 && c == syn.rawDelim {
		ops = appendOp(ops, ScopeString, 1)
		ps.mode = modeRawString
		return ops, i + 1, ps
	}

	if syn.strDelims != "" && bytes.IndexByte([]byte(syn.strDelims), c) >= 0 {
		j := i + 1
		for j < len(line) && line[j] != '\n' {
			if !syn.noEscape && line[j] == '\\' && j+1 < len(line) {
				j += 2
				continue
			}
			if line[j] == c {
				j++
				break
			}
			j++
		}
		// An unterminated string runs to end of line; the state does not
		// carry into the next line.
		ops = appendOp(ops, ScopeString, j-i)
		return ops, j, ps
	}

	if isIdentStart(c) {
		j := i + 1
		for j < len(line) && isIdentCont(line[j]) {
			j++
		}
		scope, ok := syn.keywords[string(line[i:j])]
		if !ok {
			if j < len(line) && line[j] == '(' {
				scope = ScopeFunction
			} else {
				scope = ScopeDefault
			}
		}
		ops = appendOp(ops, scope, j-i)
		return ops, j, ps
	}

	if c >= '0' && c <= '9' {
		j := i + 1
		for j < len(line) && isNumCont(line[j]) {
			j++
		}
		ops = appendOp(ops, ScopeNumber, j-i)
		return ops, j, ps
	}

	switch {
	case isOperatorByte(c):
		ops = appendOp(ops, ScopeOperator, 1)
	case isPunctByte(c):
		ops = appendOp(ops, ScopePunct, 1)
	default:
		ops = appendOp(ops, ScopeDefault, 1)
	}
	return ops, i + 1, ps
}

// parseMarkdownLine applies block-level markdown rules. The only state
// carried across lines is whether we are inside a code fence.
func (ps ParseState) parseMarkdownLine(line []byte) ([]ScopeOp, ParseState) {
	n := len(line)
	trimmed := bytes.TrimLeft(line, " \t")

	if ps.mode == modeRawString {
		if bytes.HasPrefix(trimmed, []byte("```")) {
			ps.mode = modeNormal
		}
		return []ScopeOp{{ScopeString, n}}, ps
	}

	switch {
	case bytes.HasPrefix(trimmed, []byte("```")):
		ps.mode = modeRawString
		return []ScopeOp{{ScopeString, n}}, ps
	case bytes.HasPrefix(trimmed, []byte("#")):
		return []ScopeOp{{ScopeKeyword, n}}, ps
	case bytes.HasPrefix(trimmed, []byte(">")):
		return []ScopeOp{{ScopeComment, n}}, ps
	case bytes.HasPrefix(trimmed, []byte("- ")),
		bytes.HasPrefix(trimmed, []byte("* ")),
		bytes.HasPrefix(trimmed, []byte("+ ")):
		lead := n - len(trimmed)
		var ops []ScopeOp
		ops = appendOp(ops, ScopeDefault, lead)
		ops = appendOp(ops, ScopeKeyword, 1)
		ops = appendOp(ops, ScopeDefault, n-lead-1)
		return ops, ps
	}
	return []ScopeOp{{ScopeDefault, n}}, ps
}

func hasPrefixAt(line []byte, i int, prefix string) bool {
	if len(line)-i < len(prefix) {
		return false
	}
	for k := 0; k < len(prefix); k++ {
		if line[i+k] != prefix[k] {
			return false
		}
	}
	return true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isNumCont(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		c == '.' || c == '_'
}

func isOperatorByte(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%', '=', '<', '>', '!', '&', '|', '^', '~', '?':
		return true
	}
	return false
}

func isPunctByte(c byte) bool {
	switch c {
	case '.', ',', ';', ':', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}
