package grammar

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"
)

// Build creates a parser for the language. Statements can only be told apart
// after an arbitrary number of tokens ("[a, b] = f" against "[a, b]"), so
// lookahead is unbounded.
func Build() (*participle.Parser[File], error) {
	return participle.Build[File](
		participle.Lexer(MatlabLexer),
		participle.Elide("Whitespace", "Continuation", "BlockComment"),
		participle.UseLookahead(participle.MaxLookahead),
	)
}

func ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	parser, err := Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	file, err := parser.ParseString(path, string(source))
	if err != nil {
		ReportParseError(os.Stdout, string(source), err)
		return nil, err
	}
	return file, nil
}

// ReportParseError prints a friendly caret-style parse error message.
func ReportParseError(w io.Writer, src string, err error) {
	red := color.New(color.FgRed).SprintfFunc()
	hiRed := color.New(color.FgHiRed).SprintFunc()

	pe, ok := err.(participle.Error)
	if !ok {
		fmt.Fprintln(w, red("Unexpected error: %s", err))
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		fmt.Fprintln(w, red("Syntax error at unknown location: %s", err))
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", max(0, pos.Column-1)) + "^"

	fmt.Fprintln(w, red("Syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column))
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, hiRed(caret))
	fmt.Fprintf(w, "→ %s\n", pe.Message())
}
