package grammar

func keywordSet(scope Scope, words ...string) map[string]Scope {
	m := make(map[string]Scope, len(words))
	for _, w := range words {
		m[w] = scope
	}
	return m
}

func mergeKeywords(ms ...map[string]Scope) map[string]Scope {
	out := map[string]Scope{}
	for _, m := range ms {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

var Go = register(&Syntax{
	Name:         "go",
	lineComments: []string{"//"},
	blockOpen:    "/*",
	blockClose:   "*/",
	strDelims:    `"'`,
	rawDelim:     '`',
	keywords: mergeKeywords(
		keywordSet(ScopeKeyword,
			"break", "case", "chan", "const", "continue", "default", "defer",
			"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
			"interface", "map", "package", "range", "return", "select",
			"struct", "switch", "type", "var"),
		keywordSet(ScopeType,
			"bool", "byte", "rune", "string", "int", "int8", "int16", "int32",
			"int64", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
			"float32", "float64", "complex64", "complex128", "error", "any",
			"comparable"),
		keywordSet(ScopeConstant, "true", "false", "nil", "iota"),
		keywordSet(ScopeFunction,
			"append", "cap", "clear", "close", "complex", "copy", "delete",
			"imag", "len", "make", "max", "min", "new", "panic", "print",
			"println", "real", "recover"),
	),
})

var Rust = register(&Syntax{
	Name:         "rust",
	lineComments: []string{"//"},
	blockOpen:    "/*",
	blockClose:   "*/",
	// Single quotes are left alone: 'a is a lifetime more often than a
	// char literal.
	strDelims: `"`,
	keywords: mergeKeywords(
		keywordSet(ScopeKeyword,
			"as", "async", "await", "break", "const", "continue", "crate",
			"dyn", "else", "enum", "extern", "fn", "for", "if", "impl", "in",
			"let", "loop", "match", "mod", "move", "mut", "pub", "ref",
			"return", "static", "struct", "super", "trait", "type", "unsafe",
			"use", "where", "while"),
		keywordSet(ScopeType,
			"bool", "char", "str", "String", "i8", "i16", "i32", "i64",
			"i128", "isize", "u8", "u16", "u32", "u64", "u128", "usize",
			"f32", "f64", "Vec", "Option", "Result", "Box", "Self"),
		keywordSet(ScopeConstant, "true", "false", "None", "Some", "Ok", "Err", "self"),
	),
})

var Python = register(&Syntax{
	Name:         "python",
	lineComments: []string{"#"},
	strDelims:    `"'`,
	tripleQuote:  true,
	keywords: mergeKeywords(
		keywordSet(ScopeKeyword,
			"and", "as", "assert", "async", "await", "break", "class",
			"continue", "def", "del", "elif", "else", "except", "finally",
			"for", "from", "global", "if", "import", "in", "is", "lambda",
			"nonlocal", "not", "or", "pass", "raise", "return", "try",
			"while", "with", "yield"),
		keywordSet(ScopeType, "int", "float", "str", "bytes", "list", "dict", "set", "tuple", "bool", "object"),
		keywordSet(ScopeConstant, "True", "False", "None", "self"),
		keywordSet(ScopeFunction, "print", "len", "range", "open", "isinstance", "super"),
	),
})

var C = register(&Syntax{
	Name:         "c",
	lineComments: []string{"//"},
	blockOpen:    "/*",
	blockClose:   "*/",
	strDelims:    `"'`,
	keywords: mergeKeywords(
		keywordSet(ScopeKeyword,
			"break", "case", "const", "continue", "default", "do", "else",
			"enum", "extern", "for", "goto", "if", "inline", "register",
			"return", "sizeof", "static", "struct", "switch", "typedef",
			"union", "volatile", "while", "class", "namespace", "template",
			"public", "private", "protected", "virtual", "new", "delete",
			"using"),
		keywordSet(ScopeType,
			"void", "char", "short", "int", "long", "float", "double",
			"signed", "unsigned", "size_t", "int8_t", "int16_t", "int32_t",
			"int64_t", "uint8_t", "uint16_t", "uint32_t", "uint64_t", "bool",
			"auto"),
		keywordSet(ScopeConstant, "NULL", "true", "false", "nullptr"),
	),
})

var JavaScript = register(&Syntax{
	Name:         "javascript",
	lineComments: []string{"//"},
	blockOpen:    "/*",
	blockClose:   "*/",
	strDelims:    `"'`,
	rawDelim:     '`',
	keywords: mergeKeywords(
		keywordSet(ScopeKeyword,
			"async", "await", "break", "case", "catch", "class", "const",
			"continue", "debugger", "default", "delete", "do", "else",
			"export", "extends", "finally", "for", "function", "if",
			"import", "in", "instanceof", "let", "new", "of", "return",
			"static", "switch", "throw", "try", "typeof", "var", "void",
			"while", "with", "yield", "interface", "type", "enum"),
		keywordSet(ScopeType, "string", "number", "boolean", "object", "symbol", "bigint", "unknown", "never"),
		keywordSet(ScopeConstant, "true", "false", "null", "undefined", "NaN", "Infinity", "this"),
	),
})

var JSON = register(&Syntax{
	Name:      "json",
	strDelims: `"`,
	keywords:  keywordSet(ScopeConstant, "true", "false", "null"),
})

var TOML = register(&Syntax{
	Name:         "toml",
	lineComments: []string{"#"},
	strDelims:    `"'`,
	keywords:     keywordSet(ScopeConstant, "true", "false"),
})

var YAML = register(&Syntax{
	Name:         "yaml",
	lineComments: []string{"#"},
	strDelims:    `"'`,
	keywords:     keywordSet(ScopeConstant, "true", "false", "null", "yes", "no"),
})

var Shell = register(&Syntax{
	Name:         "shell",
	lineComments: []string{"#"},
	strDelims:    `"'`,
	rawDelim:     '`',
	noEscape:     false,
	keywords: mergeKeywords(
		keywordSet(ScopeKeyword,
			"if", "then", "else", "elif", "fi", "case", "esac", "for",
			"while", "until", "do", "done", "in", "function", "select",
			"return", "exit", "break", "continue", "local", "export",
			"readonly", "declare", "unset", "shift", "source"),
		keywordSet(ScopeFunction, "echo", "cd", "printf", "test", "read", "eval", "exec", "trap"),
	),
})

var Markdown = register(&Syntax{
	Name:     "markdown",
	markdown: true,
})
