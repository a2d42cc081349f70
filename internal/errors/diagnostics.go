package errors

import (
	"fmt"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"mlssa/internal/ast"
)

// Category classifies a construction diagnostic and decides how it propagates
type Category int

const (
	ParseError Category = iota
	CorrectnessError
	NotYetImplementedError
	NotSupportedError
	UnrecognizedDirectiveError
	SuspiciousCase
)

var categoryNames = [...]string{
	ParseError:                 "parse error",
	CorrectnessError:           "correctness error",
	NotYetImplementedError:     "not yet implemented",
	NotSupportedError:          "not supported",
	UnrecognizedDirectiveError: "unrecognized directive",
	SuspiciousCase:             "suspicious case",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Code is the error code reported for the category
func (c Category) Code() string {
	switch c {
	case ParseError:
		return ErrorParse
	case CorrectnessError:
		return ErrorCorrectness
	case NotYetImplementedError:
		return ErrorNotYetImplemented
	case NotSupportedError:
		return ErrorNotSupported
	case UnrecognizedDirectiveError:
		return ErrorUnrecognizedDirective
	default:
		return WarningSuspicious
	}
}

// Fatal reports whether construction must stop at once
func (c Category) Fatal() bool {
	return c == NotYetImplementedError || c == NotSupportedError
}

// CategoryOf maps an error code back to its category
func CategoryOf(code string) Category {
	switch code {
	case ErrorParse:
		return ParseError
	case ErrorCorrectness:
		return CorrectnessError
	case ErrorNotYetImplemented:
		return NotYetImplementedError
	case ErrorNotSupported:
		return NotSupportedError
	case ErrorUnrecognizedDirective:
		return UnrecognizedDirectiveError
	default:
		return SuspiciousCase
	}
}

// Diagnostic is the error value returned by Reporter.EmitError. Callers use it
// to unwind the statement being built.
type Diagnostic struct {
	CompilerError
	Category Category
	Filename string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s[%s]: %s",
		d.Filename, d.Position.Line, d.Position.Column, d.Level, d.Code, d.Message)
}

// AsDiagnostic extracts the diagnostic carried by err, if any
func AsDiagnostic(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if pkgerrors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// Reporter is the diagnostics service used during construction
type Reporter interface {
	// EmitError records an error and returns it as a control-flow signal
	EmitError(pos ast.Position, category Category, message string) error
	// EmitMessage records a non-fatal diagnostic
	EmitMessage(pos ast.Position, category Category, message string)
	// Report records a prebuilt diagnostic; warnings return nil
	Report(err CompilerError) error
}

// Collector is a Reporter that keeps every diagnostic for one source file
type Collector struct {
	filename string
	log      commonlog.Logger

	mu          sync.Mutex
	diagnostics []*Diagnostic
}

func NewCollector(filename string) *Collector {
	return &Collector{
		filename: filename,
		log:      commonlog.GetLogger("mlssa.diagnostics"),
	}
}

func (c *Collector) EmitError(pos ast.Position, category Category, message string) error {
	return c.Report(NewError(category.Code(), message, pos).Build())
}

func (c *Collector) EmitMessage(pos ast.Position, category Category, message string) {
	c.Report(NewWarning(category.Code(), message, pos).Build())
}

func (c *Collector) Report(err CompilerError) error {
	d := &Diagnostic{CompilerError: err, Category: CategoryOf(err.Code), Filename: c.filename}

	c.mu.Lock()
	c.diagnostics = append(c.diagnostics, d)
	c.mu.Unlock()

	if err.Level != Error {
		c.log.Noticef("%s", d.Error())
		return nil
	}

	c.log.Errorf("%s", d.Error())
	return d
}

// Diagnostics returns the recorded diagnostics in emission order
func (c *Collector) Diagnostics() []*Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*Diagnostic(nil), c.diagnostics...)
}

// HasErrors reports whether any error level diagnostic was recorded
func (c *Collector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.diagnostics {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Merge appends the diagnostics recorded by other
func (c *Collector) Merge(other *Collector) {
	diagnostics := other.Diagnostics()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, diagnostics...)
}

// Format renders every diagnostic against the source text
func (c *Collector) Format(source string) string {
	reporter := NewErrorReporter(c.filename, source)

	var errs []CompilerError
	for _, d := range c.Diagnostics() {
		errs = append(errs, d.CompilerError)
	}
	return reporter.FormatAll(errs)
}
