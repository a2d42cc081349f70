package parser

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"mlssa/grammar"
	"mlssa/internal/ast"
)

var parser = buildParser()

func buildParser() *participle.Parser[grammar.File] {
	p, err := grammar.Build()
	if err != nil {
		panic(fmt.Errorf("failed to build parser: %w", err))
	}

	return p
}

// ParseError is a syntax or conversion error with its source position
type ParseError struct {
	Position ast.Position
	Message  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Position.Filename, e.Position.Line, e.Position.Column, e.Message)
}

func ParseFile(path string) (*ast.File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseSource(path, string(source))
}

// ParseSource parses and lowers a source file. Operators become named calls
// and while conditions are moved into the loop body.
func ParseSource(sourceName string, source string) (*ast.File, error) {
	tree, err := parser.ParseString(sourceName, source)
	if err != nil {
		if pe, ok := err.(participle.Error); ok {
			return nil, ParseError{Position: convertPos(pe.Position()), Message: pe.Message()}
		}
		return nil, err
	}

	file, err := convertFile(tree)
	if err != nil {
		return nil, err
	}

	CanonicalizeWhile(file)
	return file, nil
}
