package errors

// Error codes for the SSA construction toolchain
// These codes are used in diagnostics and documentation
// to provide consistent error identification across the tools.
//
// Error code ranges:
// E0100-E0199: Construction errors
// E0200-E0299: SSA validation errors
// W0100-W0199: Advisory warnings

const (
	// E0100: Malformed structural use (duplicate parameter, break outside a loop, ...)
	ErrorParse = "E0100"

	// E0101: Well-formed but incorrect program (misplaced loop property, ambiguous deletion)
	ErrorCorrectness = "E0101"

	// E0102: Recognized construct that is not lowered yet
	ErrorNotYetImplemented = "E0102"

	// E0103: Construct that will never be supported
	ErrorNotSupported = "E0103"

	// E0104: Comment starting with the directive marker that names no directive
	ErrorUnrecognizedDirective = "E0104"

	// E0200: Produced SSA does not satisfy its invariants
	ErrorInvalidSsa = "E0200"

	// W0100: Legal but suspicious code, such as a deletion that could be simplified
	WarningSuspicious = "W0100"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorParse:
		return "Construct is used where it is not allowed"
	case ErrorCorrectness:
		return "Program is well formed but cannot be compiled correctly"
	case ErrorNotYetImplemented:
		return "Construct is recognized but not implemented"
	case ErrorNotSupported:
		return "Construct is not supported"
	case ErrorUnrecognizedDirective:
		return "Directive comment is not recognized"
	case ErrorInvalidSsa:
		return "Generated SSA form is invalid"
	case WarningSuspicious:
		return "Code is legal but suspicious"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case IsWarning(code):
		return "Warning"
	case code >= "E0100" && code < "E0200":
		return "Construction"
	case code >= "E0200" && code < "E0300":
		return "Validation"
	default:
		return "Unknown"
	}
}
