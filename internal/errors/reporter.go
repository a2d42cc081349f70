package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"mlssa/internal/ast"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError is a construction diagnostic with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Code        string       // Error code like E0100
	Message     string       // Primary error message
	Position    ast.Position // Location in source
	Length      int          // Length of the problematic region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string       // Help text for the error
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string       // Description of the suggestion
	Replacement string       // Suggested replacement text (optional)
	Position    ast.Position // Position to apply the fix (optional)
	Length      int          // Length of text to replace (optional)
}

var (
	bold  = color.New(color.Bold).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	blue  = color.New(color.FgBlue).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
)

// ErrorReporter renders diagnostics against the source they point into
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatAll renders every diagnostic in order, then a one-line tally. The
// tally names the first diagnostic that stopped construction, if any.
func (er *ErrorReporter) FormatAll(errs []CompilerError) string {
	if len(errs) == 0 {
		return ""
	}

	var result strings.Builder
	errorCount, warningCount := 0, 0
	var stopped *CompilerError
	for i, err := range errs {
		result.WriteString(er.FormatError(err))

		switch err.Level {
		case Error:
			errorCount++
		case Warning:
			warningCount++
		}
		if stopped == nil && CategoryOf(err.Code).Fatal() {
			stopped = &errs[i]
		}
	}

	result.WriteString(fmt.Sprintf("%s: %s, %s\n", bold(er.filename),
		plural(errorCount, "error"), plural(warningCount, "warning")))
	if stopped != nil {
		result.WriteString(fmt.Sprintf("%s construction stopped at %s:%d:%d (%s)\n",
			levelColor(Error)("aborted:"), er.filename, stopped.Position.Line, stopped.Position.Column,
			CategoryOf(stopped.Code)))
	}
	return result.String()
}

// FormatError renders one diagnostic:
//
//	error[E0101]: message
//	   --> f.m:3:5 (correctness error)
//	    │
//	  3 │ x = y;
//	    │     ^
//	    = help: ...
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var result strings.Builder
	gutter := er.getLineNumberWidth(err.Position.Line + 1)
	indent := strings.Repeat(" ", gutter)

	header := string(err.Level)
	if err.Code != "" {
		header += "[" + err.Code + "]"
	}
	result.WriteString(fmt.Sprintf("%s: %s\n", levelColor(err.Level)(header), bold(err.Message)))

	location := fmt.Sprintf("%s:%d:%d", er.filename, err.Position.Line, err.Position.Column)
	if category := CategoryOf(err.Code); category.Code() == err.Code {
		location += dim(fmt.Sprintf(" (%s)", category))
	}
	result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("-->"), location))
	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	er.writeSnippet(&result, err, gutter)
	writeAnnotations(&result, err, indent)

	if CategoryOf(err.Code).Fatal() && err.Level == Error {
		result.WriteString(fmt.Sprintf("%s %s %s the rest of this body was not built\n",
			indent, dim("="), blue("note:")))
	}

	result.WriteString("\n")
	return result.String()
}

// writeSnippet prints the offending line between its neighbours and marks
// the reported span
func (er *ErrorReporter) writeSnippet(result *strings.Builder, err CompilerError, gutter int) {
	indent := strings.Repeat(" ", gutter)
	for n := err.Position.Line - 1; n <= err.Position.Line+1; n++ {
		if n < 1 || n > len(er.lines) {
			continue
		}
		text := strings.TrimRight(er.lines[n-1], "\r")
		number := fmt.Sprintf("%*d", gutter, n)

		if n != err.Position.Line {
			result.WriteString(fmt.Sprintf("%s %s %s\n", dim(number), dim("│"), text))
			continue
		}
		result.WriteString(fmt.Sprintf("%s %s %s\n", bold(number), dim("│"), text))
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"),
			er.createMarker(markerPrefix(text, err.Position.Column), err.Length, err.Level)))
	}
}

// writeAnnotations prints suggestions, notes and help below the snippet
func writeAnnotations(result *strings.Builder, err CompilerError, indent string) {
	for _, suggestion := range err.Suggestions {
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("="), cyan("help:"), suggestion.Message))
		if suggestion.Replacement == "" {
			continue
		}
		for _, line := range strings.Split(suggestion.Replacement, "\n") {
			result.WriteString(fmt.Sprintf("%s %s   %s\n", indent, cyan("│"), cyan(line)))
		}
	}

	for _, note := range err.Notes {
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("="), blue("note:"), note))
	}

	if err.HelpText != "" {
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("="), green("help:"), err.HelpText))
	}
}

func levelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// markerPrefix returns the padding that puts the marker under column. Tabs
// are kept so the marker lines up with tab-indented MATLAB code.
func markerPrefix(line string, column int) string {
	var prefix strings.Builder
	for i, r := range line {
		if i >= column-1 {
			break
		}
		if r == '\t' {
			prefix.WriteRune('\t')
		} else {
			prefix.WriteRune(' ')
		}
	}
	if pad := column - 1 - len(line); pad > 0 {
		prefix.WriteString(strings.Repeat(" ", pad))
	}
	return prefix.String()
}

// createMarker underlines length characters after prefix
func (er *ErrorReporter) createMarker(prefix string, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}
	return prefix + levelColor(level)(strings.Repeat("^", length))
}

// getLineNumberWidth calculates the width needed for line numbers
func (er *ErrorReporter) getLineNumberWidth(line int) int {
	return max(3, len(fmt.Sprint(line)))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
