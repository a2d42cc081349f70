package builder

import (
	"fmt"

	"mlssa/internal/ast"
	"mlssa/internal/errors"
	"mlssa/internal/ssa"
)

// Index frame causes, kept on EndContext for diagnostics
const (
	causeInput     = "input vars"
	causeCellInput = "cell input"
	causeOutput    = "output call"
	causeDeletion  = "deletion index"
)

func (b *Builder) isVariable(ctx *BlockContext, name string) bool {
	return ctx.IsGlobal(name) || ctx.HasVariable(name)
}

// buildExpr evaluates e into outputs. Calls accept any number of outputs,
// every other expression produces exactly one value.
func (b *Builder) buildExpr(ctx *BlockContext, e ast.Expr, outputs []string) (*BlockContext, error) {
	switch x := e.(type) {
	case *ast.AccessCallExpr:
		if x.Lowered || !b.isVariable(ctx, x.Name.Value) {
			return b.buildCall(ctx, x.Name.Value, x.Args, outputs)
		}
	case *ast.Ident:
		if !b.isVariable(ctx, x.Value) {
			return b.buildCall(ctx, x.Value, nil, outputs)
		}
	}

	if len(outputs) != 1 {
		b.reporter.Report(errors.TooManyOutputs(len(outputs), e.NodePos()))
		return nil, nil
	}
	output := outputs[0]

	switch x := e.(type) {
	case *ast.NumberLit:
		ctx.AddInstruction(&ssa.AssignmentInstruction{Output: output, Kind: ssa.FromNumber, Source: x.Value})
		return ctx, nil

	case *ast.StringLit:
		ctx.AddInstruction(&ssa.StringInstruction{Output: output, Value: x.Value})
		return ctx, nil

	case *ast.Ident:
		if ctx.IsGlobal(x.Value) {
			ctx.AddInstruction(&ssa.ReadGlobalInstruction{Output: output, Global: globalName(x.Value)})
			return ctx, nil
		}
		current, _ := ctx.CurrentName(x.Value)
		ctx.AddInstruction(&ssa.AssignmentInstruction{Output: output, Kind: ssa.FromVariable, Source: current})
		return ctx, nil

	case *ast.AccessCallExpr:
		return b.buildMatrixGet(ctx, x, output)

	case *ast.CellAccessExpr:
		return b.buildCellGet(ctx, x, output)

	case *ast.ColonExpr:
		return b.buildColon(ctx, x, output)

	case *ast.EndExpr:
		frame, ok := ctx.CurrentEndContext()
		if !ok {
			b.reporter.Report(errors.EndOutsideIndex(x.Pos))
			return nil, nil
		}
		ctx.AddInstruction(&ssa.EndInstruction{
			Output:     output,
			Matrix:     frame.ReferencedName,
			Index:      frame.IndexPosition,
			NumIndices: frame.IndexCount,
		})
		return ctx, nil

	case *ast.RangeExpr:
		args := []ast.Expr{x.Start, x.End}
		if x.Step != nil {
			args = []ast.Expr{x.Start, x.Step, x.End}
		}
		return b.buildCall(ctx, "colon", args, outputs)

	case *ast.ShortCircuitExpr:
		return b.buildShortCircuit(ctx, x, output)

	case *ast.MatrixExpr:
		return b.buildMatrix(ctx, x, output)

	case *ast.CellExpr:
		return b.buildCellArray(ctx, x, output)

	case *ast.TildeExpr:
		return nil, b.fail(x, errors.ParseError, "'~' can only be used as an output")
	}

	return nil, b.fail(e, errors.NotYetImplementedError, "expression %s", e.NodeType())
}

// buildOperand returns a name holding the value of e. Local variables are
// used directly, anything else is evaluated into a temporary.
func (b *Builder) buildOperand(ctx *BlockContext, e ast.Expr, tag string) (*BlockContext, string, error) {
	if id, ok := e.(*ast.Ident); ok && !ctx.IsGlobal(id.Value) {
		if name, ok := ctx.CurrentName(id.Value); ok {
			return ctx, name, nil
		}
	}

	temp := b.makeTemporary(tag)
	ctx, err := b.buildExpr(ctx, e, []string{temp})
	return ctx, temp, err
}

func (b *Builder) buildCall(ctx *BlockContext, function string, args []ast.Expr, outputs []string) (*BlockContext, error) {
	names := make([]string, 0, len(args))
	for i, arg := range args {
		if _, ok := arg.(*ast.ColonExpr); ok {
			return nil, b.fail(arg, errors.CorrectnessError, "'%s' is not a variable, ':' cannot be used as an argument", function)
		}

		var (
			name string
			err  error
		)
		ctx, name, err = b.buildOperand(ctx, arg, fmt.Sprintf("%s_arg%d", function, i+1))
		if err != nil || ctx == nil {
			return nil, err
		}
		names = append(names, name)
	}

	ctx.AddInstruction(&ssa.UntypedFunctionCallInstruction{
		Function: function,
		Results:  append([]string(nil), outputs...),
		Args:     names,
	})
	return ctx, nil
}

// buildIndices evaluates index arguments of ref, each with its own end frame
func (b *Builder) buildIndices(ctx *BlockContext, args []ast.Expr, ref, cause, tag string) (*BlockContext, []string, error) {
	indices := make([]string, 0, len(args))
	for i, arg := range args {
		ctx.PushEndContext(cause, ref, i, len(args))

		next, index, err := b.buildOperand(ctx, arg, fmt.Sprintf("%s%d", tag, i+1))
		if err != nil || next == nil {
			return nil, nil, err
		}
		ctx = next

		ctx.PopEndContext()
		indices = append(indices, index)
	}
	return ctx, indices, nil
}

func isColon(e ast.Expr) bool {
	_, ok := e.(*ast.ColonExpr)
	return ok
}

func (b *Builder) buildMatrixGet(ctx *BlockContext, x *ast.AccessCallExpr, output string) (*BlockContext, error) {
	name := x.Name.Value
	ref := b.readVariable(ctx, name)

	if len(x.Args) == 1 && isColon(x.Args[0]) {
		ctx.AddInstruction(&ssa.VerticalFlattenInstruction{Output: output, Input: ref})
		return ctx, nil
	}

	ctx, indices, err := b.buildIndices(ctx, x.Args, ref, causeInput, name+"_arg")
	if err != nil || ctx == nil {
		return nil, err
	}
	ctx.AddInstruction(&ssa.MatrixGetInstruction{Output: output, Matrix: ref, Indices: indices})
	return ctx, nil
}

func (b *Builder) buildCellGet(ctx *BlockContext, x *ast.CellAccessExpr, output string) (*BlockContext, error) {
	name := x.Name.Value
	if len(x.Args) == 1 && isColon(x.Args[0]) {
		return nil, b.report(errors.NotYetImplemented("colon notation for cell access", x.Pos))
	}

	var ref string
	if b.isVariable(ctx, name) {
		ref = b.readVariable(ctx, name)
	} else {
		ref = b.makeTemporary("cell_array")
		var err error
		ctx, err = b.buildCall(ctx, name, nil, []string{ref})
		if err != nil || ctx == nil {
			return nil, err
		}
	}

	ctx, indices, err := b.buildIndices(ctx, x.Args, ref, causeCellInput, name+"_arg")
	if err != nil || ctx == nil {
		return nil, err
	}
	ctx.AddInstruction(&ssa.CellGetInstruction{Output: output, Cell: ref, Indices: indices})
	return ctx, nil
}

// buildColon lowers a bare ':' index to colon(1, end)
func (b *Builder) buildColon(ctx *BlockContext, x *ast.ColonExpr, output string) (*BlockContext, error) {
	frame, ok := ctx.CurrentEndContext()
	if !ok {
		return nil, b.fail(x, errors.CorrectnessError, "':' used outside of an indexing context")
	}

	start := b.makeTemporary("start")
	ctx.AddInstruction(&ssa.AssignmentInstruction{Output: start, Kind: ssa.FromNumber, Source: "1"})
	end := b.makeTemporary("end")
	ctx.AddInstruction(&ssa.EndInstruction{
		Output:     end,
		Matrix:     frame.ReferencedName,
		Index:      frame.IndexPosition,
		NumIndices: frame.IndexCount,
	})
	ctx.AddInstruction(&ssa.UntypedFunctionCallInstruction{
		Function: "colon",
		Results:  []string{output},
		Args:     []string{start, end},
	})
	return ctx, nil
}

// buildShortCircuit lowers && and || to a branch so the right operand only
// runs when it decides the result
func (b *Builder) buildShortCircuit(ctx *BlockContext, x *ast.ShortCircuitExpr, output string) (*BlockContext, error) {
	prefix, constant := "and", "false"
	if x.Op == "||" {
		prefix, constant = "or", "true"
	}

	ctx, left, err := b.buildOperand(ctx, x.Left, prefix+"_left")
	if err != nil || ctx == nil {
		return nil, err
	}
	ctx.AddInstruction(&ssa.ValidateBooleanInstruction{Input: left})

	trueCtx := ctx.child(false)
	falseCtx := ctx.child(false)
	end := ctx.child(ctx.IsRoot())
	ctx.AddInstruction(&ssa.BranchInstruction{
		Condition:  left,
		TrueBlock:  trueCtx.BlockID(),
		FalseBlock: falseCtx.BlockID(),
		EndBlock:   end.BlockID(),
	})

	evaluate, short := trueCtx, falseCtx
	if x.Op == "||" {
		evaluate, short = falseCtx, trueCtx
	}

	evaluate, right, err := b.buildOperand(evaluate, x.Right, prefix+"_right")
	if err != nil || evaluate == nil {
		return nil, err
	}
	evaluate.AddInstruction(&ssa.ValidateBooleanInstruction{Input: right})
	logical := b.makeTemporary(prefix + "_right_as_logical")
	evaluate.AddInstruction(&ssa.UntypedFunctionCallInstruction{
		Function: "logical",
		Results:  []string{logical},
		Args:     []string{right},
	})

	shortValue := b.makeTemporary(prefix + "_out")
	short.AddInstruction(&ssa.BuiltinVariableInstruction{Output: shortValue, Name: constant})

	// Sources are listed true side first
	phi := &ssa.PhiInstruction{
		Output:       output,
		Variables:    []string{logical, shortValue},
		SourceBlocks: []int{evaluate.BlockID(), short.BlockID()},
	}
	if x.Op == "||" {
		phi.Variables = []string{shortValue, logical}
		phi.SourceBlocks = []int{short.BlockID(), evaluate.BlockID()}
	}
	end.AddInstruction(phi)
	return end, nil
}

// buildMatrix evaluates a matrix literal by concatenating rows
func (b *Builder) buildMatrix(ctx *BlockContext, x *ast.MatrixExpr, output string) (*BlockContext, error) {
	if len(x.Rows) == 0 {
		ctx.AddInstruction(&ssa.UntypedFunctionCallInstruction{Function: "vertcat", Results: []string{output}})
		return ctx, nil
	}

	rows := make([]string, 0, len(x.Rows))
	for _, row := range x.Rows {
		name := b.makeTemporary("row")
		var err error
		ctx, err = b.buildCall(ctx, "horzcat", row, []string{name})
		if err != nil || ctx == nil {
			return nil, err
		}
		rows = append(rows, name)
	}

	ctx.AddInstruction(&ssa.UntypedFunctionCallInstruction{Function: "vertcat", Results: []string{output}, Args: rows})
	return ctx, nil
}

// buildCellArray builds one cell row per source row, stacking them when there are several
func (b *Builder) buildCellArray(ctx *BlockContext, x *ast.CellExpr, output string) (*BlockContext, error) {
	if len(x.Rows) <= 1 {
		var row []ast.Expr
		if len(x.Rows) == 1 {
			row = x.Rows[0]
		}
		return b.buildCellRow(ctx, row, output)
	}

	rows := make([]string, 0, len(x.Rows))
	for _, row := range x.Rows {
		name := b.makeTemporary("cell_row")
		var err error
		ctx, err = b.buildCellRow(ctx, row, name)
		if err != nil || ctx == nil {
			return nil, err
		}
		rows = append(rows, name)
	}

	ctx.AddInstruction(&ssa.UntypedFunctionCallInstruction{Function: "vertcat", Results: []string{output}, Args: rows})
	return ctx, nil
}

func (b *Builder) buildCellRow(ctx *BlockContext, row []ast.Expr, output string) (*BlockContext, error) {
	values := make([]string, 0, len(row))
	for _, e := range row {
		var (
			name string
			err  error
		)
		ctx, name, err = b.buildOperand(ctx, e, "cell_value")
		if err != nil || ctx == nil {
			return nil, err
		}
		values = append(values, name)
	}

	ctx.AddInstruction(&ssa.CellMakeRowInstruction{Output: output, Values: values})
	return ctx, nil
}
