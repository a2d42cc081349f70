package lsp_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"mlssa/internal/lsp"
)

func exampleURI(t *testing.T, name string) string {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("../../examples", name))
	require.NoError(t, err, "Failed to get absolute path")
	return "file://" + filepath.ToSlash(absPath)
}

// recordingContext captures published diagnostics
func recordingContext(published *[]*protocol.PublishDiagnosticsParams) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				*published = append(*published, params.(*protocol.PublishDiagnosticsParams))
			}
		},
	}
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	handler := lsp.NewMlssaHandler(nil)

	ctx := &glsp.Context{}
	params := &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{
			URI: exampleURI(t, "sum_loop.m"),
		},
	}

	tokens, err := handler.TextDocumentSemanticTokensFull(ctx, params)
	require.NoError(t, err, "TextDocumentSemanticTokensFull returned error")
	require.NotNil(t, tokens, "Returned tokens should not be nil")
	require.NotEmpty(t, tokens.Data, "Returned token data should not be empty")

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err, "Failed to decode semantic tokens")
	require.GreaterOrEqual(t, len(decoded), 12)

	// function s = sum_loop(v)
	assertToken(t, &decoded[0], 1, 1, 8, "keyword", nil)
	assertToken(t, &decoded[1], 1, 10, 1, "variable", []string{"declaration"})
	assertToken(t, &decoded[2], 1, 12, 1, "operator", nil)
	assertToken(t, &decoded[3], 1, 14, 8, "function", []string{"declaration"})
	assertToken(t, &decoded[4], 1, 23, 1, "parameter", []string{"declaration"})
	// % Sums the elements of v
	assertToken(t, &decoded[5], 2, 1, 24, "comment", nil)
	// s = 0;
	assertToken(t, &decoded[6], 3, 1, 1, "variable", nil)
	assertToken(t, &decoded[7], 3, 3, 1, "operator", nil)
	assertToken(t, &decoded[8], 3, 5, 1, "number", nil)
	// for i = 1:numel(v)
	assertToken(t, &decoded[9], 4, 1, 3, "keyword", nil)
	assertToken(t, &decoded[10], 4, 5, 1, "variable", nil)

	last := decoded[len(decoded)-1]
	assertToken(t, &last, 7, 1, 3, "keyword", nil)
}

func TestDirectiveCommentsAreMacros(t *testing.T) {
	handler := lsp.NewMlssaHandler(nil)

	tokens, err := handler.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: exampleURI(t, "directives.m")},
	})
	require.NoError(t, err)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)

	var macros []uint32
	for _, token := range decoded {
		if token.Type == "macro" {
			macros = append(macros, token.Line)
		}
	}
	assert.Equal(t, []uint32{2, 3, 4, 6, 7}, macros)
}

func TestDidOpenPublishesConstructionDiagnostics(t *testing.T) {
	handler := lsp.NewMlssaHandler(nil)

	var published []*protocol.PublishDiagnosticsParams
	err := handler.TextDocumentDidOpen(recordingContext(&published), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  "file:///tmp/open.m",
			Text: "function f()\n%!dump_sssa\nbreak;\nend\n",
		},
	})
	require.NoError(t, err)
	require.Len(t, published, 1)

	diagnostics := published[0].Diagnostics
	require.Len(t, diagnostics, 2)

	assert.Equal(t, uint32(1), diagnostics[0].Range.Start.Line)
	assert.Contains(t, diagnostics[0].Message, "dump_ssa")

	assert.Equal(t, uint32(2), diagnostics[1].Range.Start.Line)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diagnostics[1].Severity)
	assert.Contains(t, diagnostics[1].Message, "outside of a loop")
}

func TestDidChangeClearsDiagnostics(t *testing.T) {
	handler := lsp.NewMlssaHandler(nil)

	var published []*protocol.PublishDiagnosticsParams
	ctx := recordingContext(&published)
	uri := "file:///tmp/change.m"

	require.NoError(t, handler.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "function f(\n"},
	}))
	require.NoError(t, handler.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "function f()\nx = 1;\nend\n"},
		},
	}))

	require.Len(t, published, 2)
	require.Len(t, published[0].Diagnostics, 1)
	assert.Equal(t, "mlssa", *published[0].Diagnostics[0].Source)
	assert.Empty(t, published[1].Diagnostics)
}

func TestDirectiveCompletion(t *testing.T) {
	handler := lsp.NewMlssaHandler(nil)
	uri := "file:///tmp/complete.m"

	require.NoError(t, handler.TextDocumentDidOpen(&glsp.Context{}, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "function f()\n%!\nend\n"},
	}))

	result, err := handler.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 1, Character: 2},
		},
	})
	require.NoError(t, err)

	list := result.(*protocol.CompletionList)
	var labels []string
	for _, item := range list.Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "specialize")
	assert.Contains(t, labels, "estimated_iterations")

	result, err = handler.TextDocumentCompletion(&glsp.Context{}, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: 0, Character: 3},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, result.(*protocol.CompletionList).Items)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1, // LSP uses 0-based indexing
			Char:      char + 1, // LSP uses 0-based indexing
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
