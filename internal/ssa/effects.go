package ssa

// This file implements the Effect() method for all instruction types
// Effects are a static property of the instruction kind

func (i *ArgumentInstruction) Effect() Effect        { return NoSideEffect }
func (i *AssignmentInstruction) Effect() Effect      { return NoSideEffect }
func (i *BuiltinVariableInstruction) Effect() Effect { return NoSideEffect }

// Comments survive dead code elimination so generated code keeps them
func (i *CommentInstruction) Effect() Effect { return Decorator }

func (i *LineInstruction) Effect() Effect { return LineMarker }
func (i *PhiInstruction) Effect() Effect  { return NoSideEffect }

// Block enders
func (i *BranchInstruction) Effect() Effect   { return ControlFlow }
func (i *WhileInstruction) Effect() Effect    { return ControlFlow }
func (i *ForInstruction) Effect() Effect      { return ControlFlow }
func (i *BreakInstruction) Effect() Effect    { return ControlFlow }
func (i *ContinueInstruction) Effect() Effect { return ControlFlow }

func (i *IterInstruction) Effect() Effect       { return NoSideEffect }
func (i *ReadGlobalInstruction) Effect() Effect { return NoSideEffect }

// Globals are shared memory, a write is always observable
func (i *WriteGlobalInstruction) Effect() Effect { return HasSideEffect }

// Indexing may fail with an out of range error
func (i *MatrixGetInstruction) Effect() Effect { return ValidationSideEffect }
func (i *MatrixSetInstruction) Effect() Effect { return ValidationSideEffect }
func (i *CellGetInstruction) Effect() Effect   { return ValidationSideEffect }
func (i *CellSetInstruction) Effect() Effect   { return ValidationSideEffect }

func (i *CellMakeRowInstruction) Effect() Effect { return NoSideEffect }
func (i *EndInstruction) Effect() Effect         { return NoSideEffect }

// Untyped calls may print, write files or touch globals
func (i *UntypedFunctionCallInstruction) Effect() Effect { return HasSideEffect }

func (i *StringInstruction) Effect() Effect          { return NoSideEffect }
func (i *VerticalFlattenInstruction) Effect() Effect { return NoSideEffect }

func (i *ValidateBooleanInstruction) Effect() Effect               { return ValidationSideEffect }
func (i *ValidateAtLeastOneEmptyMatrixInstruction) Effect() Effect { return ValidationSideEffect }

// Directives
func (i *SpecializeDirectiveInstruction) Effect() Effect             { return Decorator }
func (i *AssumeIndicesInRangeDirectiveInstruction) Effect() Effect   { return Decorator }
func (i *AssumeMatrixSizesMatchDirectiveInstruction) Effect() Effect { return Decorator }
func (i *DisableOptimizationDirectiveInstruction) Effect() Effect    { return Decorator }
