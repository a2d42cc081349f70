package ast

// File represents one source file: either a list of functions or a script
type File struct {
	Pos       Position
	EndPos    Position
	Functions []*Function
	Script    []Stmt // Top-level statements of a script file
}

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// Function represents a function definition
// Example: "function [y, n] = f(x, ~) ... end"
type Function struct {
	Pos     Position
	EndPos  Position
	Name    *Ident
	Inputs  []*Param
	Outputs []*Ident
	Body    []Stmt
}

// Param is a formal input parameter; Ignored marks a `~` placeholder
type Param struct {
	Pos     Position
	EndPos  Position
	Name    string
	Ignored bool
}

// InputNames returns the parameter names with "" for ignored parameters
func (f *Function) InputNames() []string {
	names := make([]string, len(f.Inputs))
	for i, p := range f.Inputs {
		if !p.Ignored {
			names[i] = p.Name
		}
	}
	return names
}

func (f *Function) OutputNames() []string {
	names := make([]string, len(f.Outputs))
	for i, o := range f.Outputs {
		names[i] = o.Value
	}
	return names
}
