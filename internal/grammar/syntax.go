package grammar

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/ferrispad/ferrispad/internal/config"
)

// Syntax is a line-oriented grammar definition. Definitions are static;
// ParseState carries all mutable lexing state so a single Syntax can be
// shared by any number of documents.
type Syntax struct {
	Name string

	lineComments []string
	blockOpen    string
	blockClose   string
	strDelims    string // single-line string delimiters
	rawDelim     byte   // multi-line raw string delimiter, 0 if none
	tripleQuote  bool   // python-style """ and ''' strings
	noEscape     bool   // backslash does not escape inside strings
	markdown     bool   // markdown gets its own line rules

	keywords map[string]Scope
}

var registry = map[string]*Syntax{}

func register(s *Syntax) *Syntax {
	registry[strings.ToLower(s.Name)] = s
	return s
}

// Lookup returns the syntax registered under name (case-insensitive),
// or nil.
func Lookup(name string) *Syntax {
	return registry[strings.ToLower(name)]
}

// Names returns the registered syntax names.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, s := range registry {
		out = append(out, s.Name)
	}
	return out
}

// chromaAliases maps chroma lexer names to registered syntax names where
// they differ.
var chromaAliases = map[string]string{
	"bash":       "shell",
	"typescript": "javascript",
	"jsx":        "javascript",
	"tsx":        "javascript",
	"c++":        "c",
}

// Detect resolves a file path to a syntax. The user's languages.toml is
// consulted first, then chroma's filename matching. Plain text and
// unknown extensions return nil: such documents stay unhighlighted.
func Detect(path string, langs config.Languages) *Syntax {
	if path == "" {
		return nil
	}
	if lang := langs.Match(path); lang != nil {
		if s := Lookup(lang.Name); s != nil {
			return s
		}
	}
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		return nil
	}
	name := strings.ToLower(lexer.Config().Name)
	if alias, ok := chromaAliases[name]; ok {
		name = alias
	}
	if name == "plaintext" {
		return nil
	}
	return Lookup(name)
}
