package lsp

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	mapset "github.com/deckarep/golang-set/v2"

	"mlssa/grammar"
	"mlssa/internal/ast"
	"mlssa/internal/config"
	"mlssa/internal/driver"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the SemanticTokenTypes array
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

var symbols = lexer.SymbolsByRune(grammar.MatlabLexer)

type identKey struct {
	line, column int
}

type identClass struct {
	tokenType string
	modifiers []string
}

// declarations classifies the identifiers of function headers by position
func declarations(file *ast.File) (map[identKey]identClass, mapset.Set[string]) {
	classes := make(map[identKey]identClass)
	functions := mapset.NewThreadUnsafeSet[string]()
	if file == nil {
		return classes, functions
	}

	for _, fn := range file.Functions {
		functions.Add(fn.Name.Value)
		classes[identKey{fn.Name.Pos.Line, fn.Name.Pos.Column}] = identClass{"function", []string{"declaration"}}
		for _, in := range fn.Inputs {
			if !in.Ignored {
				classes[identKey{in.Pos.Line, in.Pos.Column}] = identClass{"parameter", []string{"declaration"}}
			}
		}
		for _, out := range fn.Outputs {
			classes[identKey{out.Pos.Line, out.Pos.Column}] = identClass{"variable", []string{"declaration"}}
		}
	}
	return classes, functions
}

// collectSemanticTokens lexes content and classifies every token of interest.
// Identifiers use the compiled file when it parsed; lexing stops at the first
// invalid character.
func collectSemanticTokens(content string, compilation *driver.Compilation, cfg *config.Config) []SemanticToken {
	var file *ast.File
	if compilation != nil {
		file = compilation.File
	}
	classes, functions := declarations(file)
	builtins := cfg.BuiltinSet()

	lex, err := grammar.MatlabLexer.LexString("", content)
	if err != nil {
		return nil
	}

	var tokens []SemanticToken
	for {
		token, err := lex.Next()
		if err != nil || token.EOF() {
			break
		}

		switch symbols[token.Type] {
		case "Keyword":
			tokens = append(tokens, makeToken(token.Pos, token.Value, "keyword")...)
		case "Number":
			tokens = append(tokens, makeToken(token.Pos, token.Value, "number")...)
		case "String":
			tokens = append(tokens, makeToken(token.Pos, token.Value, "string")...)
		case "Operator":
			tokens = append(tokens, makeToken(token.Pos, token.Value, "operator")...)
		case "Comment":
			tokenType := "comment"
			if cfg.IsDirective(strings.TrimPrefix(token.Value, "%")) {
				tokenType = "macro"
			}
			tokens = append(tokens, makeToken(token.Pos, token.Value, tokenType)...)
		case "BlockComment":
			tokens = append(tokens, blockCommentTokens(token)...)
		case "Ident":
			class, ok := classes[identKey{token.Pos.Line, token.Pos.Column}]
			switch {
			case ok:
			case functions.Contains(token.Value):
				class = identClass{tokenType: "function"}
			case builtins.Contains(token.Value):
				class = identClass{"variable", []string{"readonly", "defaultLibrary"}}
			default:
				class = identClass{tokenType: "variable"}
			}
			tokens = append(tokens, makeToken(token.Pos, token.Value, class.tokenType, class.modifiers...)...)
		}
	}

	return tokens
}

// blockCommentTokens emits one token per line, since tokens may not span lines
func blockCommentTokens(token lexer.Token) []SemanticToken {
	var tokens []SemanticToken
	pos := token.Pos
	for i, line := range strings.Split(token.Value, "\n") {
		if i > 0 {
			pos.Line++
			pos.Column = 1
		}
		tokens = append(tokens, makeToken(pos, strings.TrimRight(line, "\r"), "comment")...)
	}
	return tokens
}

// makeToken creates a semantic token for a given position and text
func makeToken(pos lexer.Position, value, tokenType string, modifiers ...string) []SemanticToken {
	if value == "" {
		return nil
	}

	mask := 0
	for _, m := range modifiers {
		mask |= 1 << indexOf(m, SemanticTokenModifiers)
	}

	return []SemanticToken{{
		Line:           uint32(pos.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(pos.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(len(value)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: mask,
	}}
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
