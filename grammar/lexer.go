package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var MatlabLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"BlockComment", `%\{[ \t]*\r?\n(?s:.*?)\r?\n[ \t]*%\}`, nil},
		{"Comment", `%[^\n]*`, nil},

		// Line continuation
		{"Continuation", `\.\.\.[^\n]*\r?\n`, nil},

		// Keywords must come before identifiers
		{"Keyword", `\b(function|elseif|else|end|if|while|for|break|continue|global)\b`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Number literals
		{"Number", `[0-9]+(?:\.[0-9]+)?(?:[eE][-+]?[0-9]+)?|\.[0-9]+(?:[eE][-+]?[0-9]+)?`, nil},

		// String literals, quotes are escaped by doubling
		{"String", `'(?:[^'\n]|'')*'|"(?:[^"\n]|"")*"`, nil},

		// Operators
		{"Operator", `&&|\|\||==|~=|<=|>=|\.\*|\./|\.\\|\.\^|[-+*/\\^<>=~!&|:@]`, nil},

		// Punctuation (must come after operators)
		{"Punctuation", `[()\[\]{},;]`, nil},

		// Newlines end statements
		{"Newline", `\r?\n`, nil},

		// Whitespace
		{"Whitespace", `[ \t]+`, nil},
	},
})
