package grammar

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// scopeTokens maps scopes onto chroma token types, so every chroma
// style definition works unmodified as an editor theme.
var scopeTokens = [scopeCount]chroma.TokenType{
	ScopeDefault:  chroma.Text,
	ScopeComment:  chroma.Comment,
	ScopeString:   chroma.LiteralString,
	ScopeNumber:   chroma.LiteralNumber,
	ScopeKeyword:  chroma.Keyword,
	ScopeType:     chroma.KeywordType,
	ScopeFunction: chroma.NameFunction,
	ScopeConstant: chroma.KeywordConstant,
	ScopeOperator: chroma.Operator,
	ScopePunct:    chroma.Punctuation,
}

// Theme is a named color palette resolved from a chroma style. Themes
// are immutable once loaded; the engine compares them by pointer.
type Theme struct {
	Name string

	colors     [scopeCount]RGB
	def        RGB
	background RGB
	hasBg      bool
}

// LoadTheme resolves a chroma style by name. Unknown names fall back to
// chroma's default style rather than failing: a bad theme name in the
// config should not cost the user their editor.
func LoadTheme(name string) *Theme {
	style := styles.Get(name)
	t := &Theme{Name: name}

	def := style.Get(chroma.Text).Colour
	if def.IsSet() {
		t.def = RGB{def.Red(), def.Green(), def.Blue()}
	} else {
		t.def = RGB{0xd0, 0xd0, 0xd0}
	}

	for s := Scope(0); s < scopeCount; s++ {
		c := style.Get(scopeTokens[s]).Colour
		if c.IsSet() {
			t.colors[s] = RGB{c.Red(), c.Green(), c.Blue()}
		} else {
			t.colors[s] = t.def
		}
	}

	if bg := style.Get(chroma.Background).Background; bg.IsSet() {
		t.background = RGB{bg.Red(), bg.Green(), bg.Blue()}
		t.hasBg = true
	}
	return t
}

// Default returns the theme's default foreground color.
func (t *Theme) Default() RGB { return t.def }

// Color returns the foreground for a scope.
func (t *Theme) Color(s Scope) RGB {
	if s >= scopeCount {
		return t.def
	}
	return t.colors[s]
}

// Background returns the theme's background color, if it defines one.
func (t *Theme) Background() (RGB, bool) {
	return t.background, t.hasBg
}

// HighlightState resolves scope runs against a theme. It is a clonable
// value like ParseState; today the theme reference is its only field,
// so two states are interchangeable exactly when they share a theme.
type HighlightState struct {
	theme *Theme
}

// NewHighlightState returns the initial highlight state for a theme.
func NewHighlightState(t *Theme) HighlightState {
	return HighlightState{theme: t}
}

// Theme returns the theme this state resolves against.
func (hs HighlightState) Theme() *Theme { return hs.theme }

// Equal reports whether two states resolve scopes identically.
func (hs HighlightState) Equal(o HighlightState) bool { return hs == o }

// Apply converts scope runs to colored spans, returning the state for
// the next line.
func (hs HighlightState) Apply(ops []ScopeOp) ([]StyledSpan, HighlightState) {
	if hs.theme == nil || len(ops) == 0 {
		return nil, hs
	}
	spans := make([]StyledSpan, 0, len(ops))
	for _, op := range ops {
		if op.Len <= 0 {
			continue
		}
		spans = append(spans, StyledSpan{Color: hs.theme.Color(op.Scope), Len: op.Len})
	}
	return spans, hs
}
