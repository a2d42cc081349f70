package ssa

import (
	"fmt"
	"strings"
)

// SSA instruction vocabulary produced by the builder and consumed by later passes.
// Instructions refer to variables by versioned name and to blocks by id, so they
// can be moved between blocks and renamed in place.

// Effect classifies what an instruction does besides defining its outputs
type Effect int

const (
	NoSideEffect         Effect = iota // Pure, removable when unused
	ValidationSideEffect               // May raise a runtime error, otherwise pure
	HasSideEffect                      // Must be kept
	ControlFlow                        // Changes control flow, always ends a block
	Decorator                          // Keep even if unused
	LineMarker                         // Source line annotation
)

func (e Effect) String() string {
	switch e {
	case NoSideEffect:
		return "none"
	case ValidationSideEffect:
		return "validation"
	case HasSideEffect:
		return "side-effect"
	case ControlFlow:
		return "control-flow"
	case Decorator:
		return "decorator"
	case LineMarker:
		return "line"
	default:
		return fmt.Sprintf("Effect(%d)", int(e))
	}
}

// Instruction is a single SSA operation. The set of implementations is closed.
type Instruction interface {
	Outputs() []string
	Inputs() []string
	Effect() Effect
	IsEnding() bool
	TargetBlocks() []int
	RenameVariables(mapping map[string]string)
	RenameBlocks(oldIDs, newIDs []int)
	BreakBlock(originalBlock, startBlock, endBlock int)
	String() string

	instruction()
}

// ArgumentInstruction binds an input parameter by position
type ArgumentInstruction struct {
	Output string
	Index  int
}

// AssignmentKind selects the payload of an AssignmentInstruction
type AssignmentKind int

const (
	FromVariable AssignmentKind = iota
	FromNumber
	FromUndefined
)

// AssignmentInstruction copies a variable, binds a numeric literal or binds the undefined value
type AssignmentInstruction struct {
	Output string
	Kind   AssignmentKind
	Source string // Variable name or literal text
}

// BuiltinVariableInstruction binds a builtin pseudo-variable such as pi or true
type BuiltinVariableInstruction struct {
	Output string
	Name   string
}

// CommentInstruction carries a source comment
type CommentInstruction struct {
	Text string
}

// LineInstruction marks the start of a source line
type LineInstruction struct {
	Line int
}

// PhiInstruction merges one name per predecessor block
type PhiInstruction struct {
	Output       string
	Variables    []string
	SourceBlocks []int
}

// BranchInstruction ends a block with a two-way conditional
type BranchInstruction struct {
	Condition  string
	TrueBlock  int
	FalseBlock int
	EndBlock   int
}

// WhileInstruction ends a block with an unconditional loop; exits happen through break
type WhileInstruction struct {
	LoopBlock int
	EndBlock  int
}

// ForInstruction ends a block with a counted loop
type ForInstruction struct {
	Start      string
	Interval   string
	End        string
	LoopBlock  int
	EndBlock   int
	Properties []LoopProperty
}

// BreakInstruction exits the innermost loop
type BreakInstruction struct{}

// ContinueInstruction jumps to the next iteration of the innermost loop
type ContinueInstruction struct{}

// IterInstruction binds the loop counter of the enclosing for loop
type IterInstruction struct {
	Output string
}

// ReadGlobalInstruction copies a global into a local name
type ReadGlobalInstruction struct {
	Output string
	Global string
}

// WriteGlobalInstruction stores a local name into a global
type WriteGlobalInstruction struct {
	Global string
	Input  string
}

// MatrixGetInstruction reads a(i1, i2, ...)
type MatrixGetInstruction struct {
	Output  string
	Matrix  string
	Indices []string
}

// MatrixSetInstruction produces a copy of a matrix with a(i1, i2, ...) = value
type MatrixSetInstruction struct {
	Output  string
	Matrix  string
	Indices []string
	Value   string
}

// CellGetInstruction reads c{i1, i2, ...}
type CellGetInstruction struct {
	Output  string
	Cell    string
	Indices []string
}

// CellSetInstruction produces a copy of a cell array with c{i1, i2, ...} = value
type CellSetInstruction struct {
	Output  string
	Cell    string
	Indices []string
	Value   string
}

// CellMakeRowInstruction builds a 1xN cell array
type CellMakeRowInstruction struct {
	Output string
	Values []string
}

// EndInstruction queries the extent of a value being indexed
type EndInstruction struct {
	Output     string
	Matrix     string
	Index      int
	NumIndices int
}

// UntypedFunctionCallInstruction calls a function before types are known
type UntypedFunctionCallInstruction struct {
	Function string
	Results  []string
	Args     []string
}

// StringInstruction binds a string literal
type StringInstruction struct {
	Output string
	Value  string
}

// VerticalFlattenInstruction implements a(:)
type VerticalFlattenInstruction struct {
	Output string
	Input  string
}

// ValidateBooleanInstruction asserts a value can be used as a condition
type ValidateBooleanInstruction struct {
	Input string
}

// ValidateAtLeastOneEmptyMatrixInstruction asserts one of the values is empty
type ValidateAtLeastOneEmptyMatrixInstruction struct {
	Values []string
}

// SpecializeDirectiveInstruction requests specialization on the value of an
// input. Variable is the source name of the input, not an SSA name.
type SpecializeDirectiveInstruction struct {
	Variable string
}

type AssumeIndicesInRangeDirectiveInstruction struct{}

type AssumeMatrixSizesMatchDirectiveInstruction struct{}

// DisableOptimizationDirectiveInstruction turns off a named pass for the function
type DisableOptimizationDirectiveInstruction struct {
	Pass string
}

// Implementation of interfaces

func (*ArgumentInstruction) instruction()                      {}
func (*AssignmentInstruction) instruction()                    {}
func (*BuiltinVariableInstruction) instruction()               {}
func (*CommentInstruction) instruction()                       {}
func (*LineInstruction) instruction()                          {}
func (*PhiInstruction) instruction()                           {}
func (*BranchInstruction) instruction()                        {}
func (*WhileInstruction) instruction()                         {}
func (*ForInstruction) instruction()                           {}
func (*BreakInstruction) instruction()                         {}
func (*ContinueInstruction) instruction()                      {}
func (*IterInstruction) instruction()                          {}
func (*ReadGlobalInstruction) instruction()                    {}
func (*WriteGlobalInstruction) instruction()                   {}
func (*MatrixGetInstruction) instruction()                     {}
func (*MatrixSetInstruction) instruction()                     {}
func (*CellGetInstruction) instruction()                       {}
func (*CellSetInstruction) instruction()                       {}
func (*CellMakeRowInstruction) instruction()                   {}
func (*EndInstruction) instruction()                           {}
func (*UntypedFunctionCallInstruction) instruction()           {}
func (*StringInstruction) instruction()                        {}
func (*VerticalFlattenInstruction) instruction()               {}
func (*ValidateBooleanInstruction) instruction()               {}
func (*ValidateAtLeastOneEmptyMatrixInstruction) instruction() {}
func (*SpecializeDirectiveInstruction) instruction()           {}
func (*AssumeIndicesInRangeDirectiveInstruction) instruction() {}
func (*AssumeMatrixSizesMatchDirectiveInstruction) instruction() {}
func (*DisableOptimizationDirectiveInstruction) instruction()  {}

// Outputs

func (i *ArgumentInstruction) Outputs() []string            { return []string{i.Output} }
func (i *AssignmentInstruction) Outputs() []string          { return []string{i.Output} }
func (i *BuiltinVariableInstruction) Outputs() []string     { return []string{i.Output} }
func (i *CommentInstruction) Outputs() []string             { return nil }
func (i *LineInstruction) Outputs() []string                { return nil }
func (i *PhiInstruction) Outputs() []string                 { return []string{i.Output} }
func (i *BranchInstruction) Outputs() []string              { return nil }
func (i *WhileInstruction) Outputs() []string               { return nil }
func (i *ForInstruction) Outputs() []string                 { return nil }
func (i *BreakInstruction) Outputs() []string               { return nil }
func (i *ContinueInstruction) Outputs() []string            { return nil }
func (i *IterInstruction) Outputs() []string                { return []string{i.Output} }
func (i *ReadGlobalInstruction) Outputs() []string          { return []string{i.Output} }
func (i *WriteGlobalInstruction) Outputs() []string         { return nil }
func (i *MatrixGetInstruction) Outputs() []string           { return []string{i.Output} }
func (i *MatrixSetInstruction) Outputs() []string           { return []string{i.Output} }
func (i *CellGetInstruction) Outputs() []string             { return []string{i.Output} }
func (i *CellSetInstruction) Outputs() []string             { return []string{i.Output} }
func (i *CellMakeRowInstruction) Outputs() []string         { return []string{i.Output} }
func (i *EndInstruction) Outputs() []string                 { return []string{i.Output} }
func (i *UntypedFunctionCallInstruction) Outputs() []string { return i.Results }
func (i *StringInstruction) Outputs() []string              { return []string{i.Output} }
func (i *VerticalFlattenInstruction) Outputs() []string     { return []string{i.Output} }
func (i *ValidateBooleanInstruction) Outputs() []string     { return nil }
func (i *ValidateAtLeastOneEmptyMatrixInstruction) Outputs() []string {
	return nil
}
func (i *SpecializeDirectiveInstruction) Outputs() []string           { return nil }
func (i *AssumeIndicesInRangeDirectiveInstruction) Outputs() []string { return nil }
func (i *AssumeMatrixSizesMatchDirectiveInstruction) Outputs() []string {
	return nil
}
func (i *DisableOptimizationDirectiveInstruction) Outputs() []string { return nil }

// Inputs

func (i *ArgumentInstruction) Inputs() []string { return nil }

func (i *AssignmentInstruction) Inputs() []string {
	if i.Kind == FromVariable {
		return []string{i.Source}
	}
	return nil
}

func (i *BuiltinVariableInstruction) Inputs() []string { return nil }
func (i *CommentInstruction) Inputs() []string         { return nil }
func (i *LineInstruction) Inputs() []string            { return nil }
func (i *PhiInstruction) Inputs() []string             { return i.Variables }
func (i *BranchInstruction) Inputs() []string          { return []string{i.Condition} }
func (i *WhileInstruction) Inputs() []string           { return nil }
func (i *ForInstruction) Inputs() []string             { return []string{i.Start, i.Interval, i.End} }
func (i *BreakInstruction) Inputs() []string           { return nil }
func (i *ContinueInstruction) Inputs() []string        { return nil }
func (i *IterInstruction) Inputs() []string            { return nil }
func (i *ReadGlobalInstruction) Inputs() []string      { return nil }
func (i *WriteGlobalInstruction) Inputs() []string     { return []string{i.Input} }

func (i *MatrixGetInstruction) Inputs() []string {
	return append([]string{i.Matrix}, i.Indices...)
}

func (i *MatrixSetInstruction) Inputs() []string {
	inputs := append([]string{i.Matrix}, i.Indices...)
	return append(inputs, i.Value)
}

func (i *CellGetInstruction) Inputs() []string {
	return append([]string{i.Cell}, i.Indices...)
}

func (i *CellSetInstruction) Inputs() []string {
	inputs := append([]string{i.Cell}, i.Indices...)
	return append(inputs, i.Value)
}

func (i *CellMakeRowInstruction) Inputs() []string         { return i.Values }
func (i *EndInstruction) Inputs() []string                 { return []string{i.Matrix} }
func (i *UntypedFunctionCallInstruction) Inputs() []string { return i.Args }
func (i *StringInstruction) Inputs() []string              { return nil }
func (i *VerticalFlattenInstruction) Inputs() []string     { return []string{i.Input} }
func (i *ValidateBooleanInstruction) Inputs() []string     { return []string{i.Input} }
func (i *ValidateAtLeastOneEmptyMatrixInstruction) Inputs() []string {
	return i.Values
}
func (i *SpecializeDirectiveInstruction) Inputs() []string           { return nil }
func (i *AssumeIndicesInRangeDirectiveInstruction) Inputs() []string { return nil }
func (i *AssumeMatrixSizesMatchDirectiveInstruction) Inputs() []string {
	return nil
}
func (i *DisableOptimizationDirectiveInstruction) Inputs() []string { return nil }

// Ending instructions

func (i *ArgumentInstruction) IsEnding() bool                        { return false }
func (i *AssignmentInstruction) IsEnding() bool                      { return false }
func (i *BuiltinVariableInstruction) IsEnding() bool                 { return false }
func (i *CommentInstruction) IsEnding() bool                         { return false }
func (i *LineInstruction) IsEnding() bool                            { return false }
func (i *PhiInstruction) IsEnding() bool                             { return false }
func (i *BranchInstruction) IsEnding() bool                          { return true }
func (i *WhileInstruction) IsEnding() bool                           { return true }
func (i *ForInstruction) IsEnding() bool                             { return true }
func (i *BreakInstruction) IsEnding() bool                           { return true }
func (i *ContinueInstruction) IsEnding() bool                        { return true }
func (i *IterInstruction) IsEnding() bool                            { return false }
func (i *ReadGlobalInstruction) IsEnding() bool                      { return false }
func (i *WriteGlobalInstruction) IsEnding() bool                     { return false }
func (i *MatrixGetInstruction) IsEnding() bool                       { return false }
func (i *MatrixSetInstruction) IsEnding() bool                       { return false }
func (i *CellGetInstruction) IsEnding() bool                         { return false }
func (i *CellSetInstruction) IsEnding() bool                         { return false }
func (i *CellMakeRowInstruction) IsEnding() bool                     { return false }
func (i *EndInstruction) IsEnding() bool                             { return false }
func (i *UntypedFunctionCallInstruction) IsEnding() bool             { return false }
func (i *StringInstruction) IsEnding() bool                          { return false }
func (i *VerticalFlattenInstruction) IsEnding() bool                 { return false }
func (i *ValidateBooleanInstruction) IsEnding() bool                 { return false }
func (i *ValidateAtLeastOneEmptyMatrixInstruction) IsEnding() bool   { return false }
func (i *SpecializeDirectiveInstruction) IsEnding() bool             { return false }
func (i *AssumeIndicesInRangeDirectiveInstruction) IsEnding() bool   { return false }
func (i *AssumeMatrixSizesMatchDirectiveInstruction) IsEnding() bool { return false }
func (i *DisableOptimizationDirectiveInstruction) IsEnding() bool    { return false }

// Target blocks. Only control flow instructions point at other blocks; phis
// name their predecessors but do not transfer control.

func (i *ArgumentInstruction) TargetBlocks() []int                        { return nil }
func (i *AssignmentInstruction) TargetBlocks() []int                      { return nil }
func (i *BuiltinVariableInstruction) TargetBlocks() []int                 { return nil }
func (i *CommentInstruction) TargetBlocks() []int                         { return nil }
func (i *LineInstruction) TargetBlocks() []int                            { return nil }
func (i *PhiInstruction) TargetBlocks() []int                             { return nil }
func (i *BranchInstruction) TargetBlocks() []int                          { return []int{i.TrueBlock, i.FalseBlock, i.EndBlock} }
func (i *WhileInstruction) TargetBlocks() []int                           { return []int{i.LoopBlock, i.EndBlock} }
func (i *ForInstruction) TargetBlocks() []int                             { return []int{i.LoopBlock, i.EndBlock} }
func (i *BreakInstruction) TargetBlocks() []int                           { return nil }
func (i *ContinueInstruction) TargetBlocks() []int                        { return nil }
func (i *IterInstruction) TargetBlocks() []int                            { return nil }
func (i *ReadGlobalInstruction) TargetBlocks() []int                      { return nil }
func (i *WriteGlobalInstruction) TargetBlocks() []int                     { return nil }
func (i *MatrixGetInstruction) TargetBlocks() []int                       { return nil }
func (i *MatrixSetInstruction) TargetBlocks() []int                       { return nil }
func (i *CellGetInstruction) TargetBlocks() []int                         { return nil }
func (i *CellSetInstruction) TargetBlocks() []int                         { return nil }
func (i *CellMakeRowInstruction) TargetBlocks() []int                     { return nil }
func (i *EndInstruction) TargetBlocks() []int                             { return nil }
func (i *UntypedFunctionCallInstruction) TargetBlocks() []int             { return nil }
func (i *StringInstruction) TargetBlocks() []int                          { return nil }
func (i *VerticalFlattenInstruction) TargetBlocks() []int                 { return nil }
func (i *ValidateBooleanInstruction) TargetBlocks() []int                 { return nil }
func (i *ValidateAtLeastOneEmptyMatrixInstruction) TargetBlocks() []int   { return nil }
func (i *SpecializeDirectiveInstruction) TargetBlocks() []int             { return nil }
func (i *AssumeIndicesInRangeDirectiveInstruction) TargetBlocks() []int   { return nil }
func (i *AssumeMatrixSizesMatchDirectiveInstruction) TargetBlocks() []int { return nil }
func (i *DisableOptimizationDirectiveInstruction) TargetBlocks() []int    { return nil }

// String representations

func (i *ArgumentInstruction) String() string {
	return fmt.Sprintf("%s = arg %d", i.Output, i.Index)
}

func (i *AssignmentInstruction) String() string {
	if i.Kind == FromUndefined {
		return fmt.Sprintf("%s = !undefined", i.Output)
	}
	return fmt.Sprintf("%s = %s", i.Output, i.Source)
}

func (i *BuiltinVariableInstruction) String() string {
	return fmt.Sprintf("%s = builtin %s", i.Output, i.Name)
}

func (i *CommentInstruction) String() string { return "% " + i.Text }
func (i *LineInstruction) String() string    { return fmt.Sprintf("line %d", i.Line) }

func (i *PhiInstruction) String() string {
	parts := make([]string, len(i.Variables))
	for idx, v := range i.Variables {
		block := -1
		if idx < len(i.SourceBlocks) {
			block = i.SourceBlocks[idx]
		}
		parts[idx] = fmt.Sprintf("#%d:%s", block, v)
	}
	return fmt.Sprintf("%s = phi %s", i.Output, strings.Join(parts, ", "))
}

func (i *BranchInstruction) String() string {
	return fmt.Sprintf("branch %s, #%d, #%d, #%d", i.Condition, i.TrueBlock, i.FalseBlock, i.EndBlock)
}

func (i *WhileInstruction) String() string {
	return fmt.Sprintf("while #%d, #%d", i.LoopBlock, i.EndBlock)
}

func (i *ForInstruction) String() string {
	s := fmt.Sprintf("for %s, %s, %s, #%d, #%d", i.Start, i.Interval, i.End, i.LoopBlock, i.EndBlock)
	if len(i.Properties) > 0 {
		props := make([]string, len(i.Properties))
		for idx, p := range i.Properties {
			props[idx] = p.String()
		}
		s += " [" + strings.Join(props, ", ") + "]"
	}
	return s
}

func (i *BreakInstruction) String() string    { return "break" }
func (i *ContinueInstruction) String() string { return "continue" }
func (i *IterInstruction) String() string     { return i.Output + " = iter" }

func (i *ReadGlobalInstruction) String() string {
	return fmt.Sprintf("%s = %s", i.Output, i.Global)
}

func (i *WriteGlobalInstruction) String() string {
	return fmt.Sprintf("%s = %s", i.Global, i.Input)
}

func (i *MatrixGetInstruction) String() string {
	return fmt.Sprintf("%s = get %s(%s)", i.Output, i.Matrix, strings.Join(i.Indices, ", "))
}

func (i *MatrixSetInstruction) String() string {
	return fmt.Sprintf("%s = set %s(%s), %s", i.Output, i.Matrix, strings.Join(i.Indices, ", "), i.Value)
}

func (i *CellGetInstruction) String() string {
	return fmt.Sprintf("%s = cell_get %s{%s}", i.Output, i.Cell, strings.Join(i.Indices, ", "))
}

func (i *CellSetInstruction) String() string {
	return fmt.Sprintf("%s = cell_set %s{%s}, %s", i.Output, i.Cell, strings.Join(i.Indices, ", "), i.Value)
}

func (i *CellMakeRowInstruction) String() string {
	return fmt.Sprintf("%s = cell_make_row %s", i.Output, strings.Join(i.Values, ", "))
}

func (i *EndInstruction) String() string {
	return fmt.Sprintf("%s = end %s, %d, %d", i.Output, i.Matrix, i.Index, i.NumIndices)
}

func (i *UntypedFunctionCallInstruction) String() string {
	return fmt.Sprintf("[%s] = untyped_call %s %s",
		strings.Join(i.Results, ", "), i.Function, strings.Join(i.Args, ", "))
}

func (i *StringInstruction) String() string {
	return fmt.Sprintf("%s = %q", i.Output, i.Value)
}

func (i *VerticalFlattenInstruction) String() string {
	return fmt.Sprintf("%s = %s(:)", i.Output, i.Input)
}

func (i *ValidateBooleanInstruction) String() string {
	return "validate_boolean " + i.Input
}

func (i *ValidateAtLeastOneEmptyMatrixInstruction) String() string {
	return "validate_at_least_one_empty_matrix " + strings.Join(i.Values, ", ")
}

func (i *SpecializeDirectiveInstruction) String() string {
	return "!specialize " + i.Variable
}

func (i *AssumeIndicesInRangeDirectiveInstruction) String() string {
	return "!assume_indices_in_range"
}

func (i *AssumeMatrixSizesMatchDirectiveInstruction) String() string {
	return "!assume_matrix_sizes_match"
}

func (i *DisableOptimizationDirectiveInstruction) String() string {
	return "!disable " + i.Pass
}
