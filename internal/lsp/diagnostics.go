package lsp

import (
	"github.com/pkg/errors"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"mlssa/internal/ast"
	"mlssa/internal/driver"
	diag "mlssa/internal/errors"
	"mlssa/internal/ssa"
)

// ConvertDiagnostics transforms construction diagnostics into LSP diagnostics
func ConvertDiagnostics(diagnostics []*diag.Diagnostic) []protocol.Diagnostic {
	result := []protocol.Diagnostic{}

	for _, d := range diagnostics {
		length := d.Length
		if length <= 0 {
			length = 1
		}

		severity := protocol.DiagnosticSeverityError
		switch d.Level {
		case diag.Warning:
			severity = protocol.DiagnosticSeverityWarning
		case diag.Note, diag.Help:
			severity = protocol.DiagnosticSeverityInformation
		}

		message := d.Message
		for _, s := range d.Suggestions {
			message += "\n" + s.Message
		}
		if d.HelpText != "" {
			message += "\nhelp: " + d.HelpText
		}

		result = append(result, protocol.Diagnostic{
			Range:    lineRange(d.Position, length),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   ptrString("mlssa"),
			Message:  message,
		})
	}

	return result
}

// ConvertCompilation collects every diagnostic of a compiled file, including
// bodies that failed validation or the pipeline
func ConvertCompilation(c *driver.Compilation) []protocol.Diagnostic {
	result := ConvertDiagnostics(c.Diagnostics.Diagnostics())

	for _, fn := range c.Functions {
		if fn.Err == nil {
			continue
		}
		if _, ok := diag.AsDiagnostic(fn.Err); ok {
			continue
		}

		pos := ast.Position{Line: 1, Column: 1}
		if fn.Body != nil {
			pos.Line = fn.Body.FirstLine
		}
		d := protocol.Diagnostic{
			Range:    lineRange(pos, 1),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("mlssa"),
			Message:  fn.Err.Error(),
		}
		var invalid *ssa.ValidationError
		if errors.As(fn.Err, &invalid) {
			d.Code = &protocol.IntegerOrString{Value: diag.ErrorInvalidSsa}
		}
		result = append(result, d)
	}

	return result
}

// lineRange converts a 1-based position to a single line LSP range
func lineRange(pos ast.Position, length int) protocol.Range {
	line := uint32(max(pos.Line-1, 0))
	column := uint32(max(pos.Column-1, 0))
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: column},
		End:   protocol.Position{Line: line, Character: column + uint32(length)},
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
