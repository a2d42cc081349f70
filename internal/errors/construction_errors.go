package errors

import (
	"fmt"
	"strings"

	"mlssa/internal/ast"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with suggestions
type DiagnosticBuilder struct {
	err CompilerError
}

// NewError creates a new error builder
func NewError(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *DiagnosticBuilder) WithReplacement(message, replacement string, pos ast.Position, length int) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// Common construction diagnostics

// DuplicateInput creates an error for a parameter name used twice
func DuplicateInput(name string, pos ast.Position) CompilerError {
	return NewError(ErrorParse, fmt.Sprintf("duplicated input parameter '%s'", name), pos).
		WithLength(len(name)).
		WithSuggestion("rename one of the parameters").
		WithNote("use '~' for parameters that are intentionally ignored").
		Build()
}

// ShadowedBuiltin creates a warning for a parameter hiding a builtin variable
func ShadowedBuiltin(name string, pos ast.Position) CompilerError {
	return NewWarning(WarningSuspicious, fmt.Sprintf("input parameter '%s' shadows a builtin variable", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("rename the parameter, for example '%s_value'", name)).
		Build()
}

// OutsideLoop creates an error for break or continue without an enclosing loop
func OutsideLoop(keyword string, pos ast.Position) CompilerError {
	return NewError(ErrorParse, fmt.Sprintf("'%s' used outside of a loop", keyword), pos).
		WithLength(len(keyword)).
		WithHelp(fmt.Sprintf("'%s' must appear inside the body of a for or while loop", keyword)).
		Build()
}

// GlobalOutsideRoot creates an error for a global declaration nested in a control structure
func GlobalOutsideRoot(name string, pos ast.Position) CompilerError {
	return NewError(ErrorParse, fmt.Sprintf("global declaration of '%s' must be at the top level of the function", name), pos).
		WithLength(len(name)).
		WithSuggestion("move the declaration out of the enclosing if, for or while").
		Build()
}

// TooManyOutputs creates an error for a multi-target assignment the right side cannot satisfy
func TooManyOutputs(targets int, pos ast.Position) CompilerError {
	return NewError(ErrorParse, fmt.Sprintf("too many output arguments: expression produces one value, %d requested", targets), pos).
		WithHelp("only function calls can return multiple values").
		Build()
}

// MisplacedLoopProperty creates an error for a loop directive not followed by a loop
func MisplacedLoopProperty(pos ast.Position) CompilerError {
	return NewError(ErrorCorrectness, "loop property must immediately precede a for loop", pos).
		WithSuggestion("move the directive to the line just before the loop").
		Build()
}

// EndOutsideIndex creates an error for 'end' used as a value outside indexing
func EndOutsideIndex(pos ast.Position) CompilerError {
	return NewError(ErrorParse, "'end' used outside of an indexing context", pos).
		WithLength(len("end")).
		Build()
}

// AmbiguousDeletion creates an error for deletions whose target cannot be resolved
func AmbiguousDeletion(message string, pos ast.Position) CompilerError {
	return NewError(ErrorCorrectness, message, pos).
		WithNote("deletion assignments only accept a single target").
		Build()
}

// NotYetImplemented creates an error for a construct that is recognized but not lowered
func NotYetImplemented(what string, pos ast.Position) CompilerError {
	return NewError(ErrorNotYetImplemented, fmt.Sprintf("%s is not yet implemented", what), pos).
		Build()
}

// NotSupported creates an error for a construct that will not be lowered
func NotSupported(what string, pos ast.Position) CompilerError {
	return NewError(ErrorNotSupported, fmt.Sprintf("%s is not supported", what), pos).
		Build()
}

// UnrecognizedDirective creates an error for an unknown directive, suggesting close names
func UnrecognizedDirective(name string, pos ast.Position, known []string) CompilerError {
	builder := NewError(ErrorUnrecognizedDirective, fmt.Sprintf("unrecognized directive '%s'", name), pos).
		WithLength(len(name))

	similar := findSimilarNames(name, known)
	switch len(similar) {
	case 0:
		builder = builder.WithNote(fmt.Sprintf("known directives: %s", strings.Join(known, ", ")))
	case 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	default:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	}

	return builder.Build()
}

// SimplifiableDeletion creates a warning for an indexed deletion covering every element
func SimplifiableDeletion(name string, pos ast.Position) CompilerError {
	return NewWarning(WarningSuspicious, fmt.Sprintf("deletion removes every element of '%s'", name), pos).
		WithReplacement("write the deletion as a plain assignment", fmt.Sprintf("%s = [];", name), pos, 0).
		Build()
}

// Helper functions

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// levenshteinDistance is the edit distance between two names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := range previous {
		previous[j] = j
	}

	for i := 1; i <= len(a); i++ {
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			current[j] = min(previous[j]+1, current[j-1]+1, previous[j-1]+cost)
		}
		previous, current = current, previous
	}

	return previous[len(b)]
}
