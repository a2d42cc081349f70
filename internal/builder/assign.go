package builder

import (
	"fmt"
	"strconv"

	"mlssa/internal/ast"
	"mlssa/internal/errors"
	"mlssa/internal/ssa"
)

func (b *Builder) buildAssignment(ctx *BlockContext, s *ast.AssignStmt) (*BlockContext, error) {
	if err := b.checkDisplay(s, s.Display); err != nil {
		return nil, err
	}
	if ast.IsEmptyMatrix(s.Value) {
		return b.buildDeletion(ctx, s)
	}

	if len(s.Targets) > 1 && !b.isCall(ctx, s.Value) {
		b.reporter.Report(errors.TooManyOutputs(len(s.Targets), s.Pos))
		return nil, nil
	}

	outputs := make([]string, len(s.Targets))
	for i, target := range s.Targets {
		switch t := target.(type) {
		case *ast.Ident:
			if ctx.IsGlobal(t.Value) {
				outputs[i] = b.makeTemporary(t.Value)
			} else {
				outputs[i] = b.newName(t.Value)
			}
		case *ast.TildeExpr:
			outputs[i] = b.makeTemporary("unused")
		case *ast.AccessCallExpr:
			outputs[i] = b.makeTemporary(t.Name.Value + "_value")
		case *ast.CellAccessExpr:
			outputs[i] = b.makeTemporary(t.Name.Value + "_value")
		default:
			return nil, b.fail(target, errors.ParseError, "invalid assignment target")
		}
	}

	ctx, err := b.buildExpr(ctx, s.Value, outputs)
	if err != nil || ctx == nil {
		return nil, err
	}

	for i, target := range s.Targets {
		switch t := target.(type) {
		case *ast.Ident:
			if ctx.IsGlobal(t.Value) {
				ctx.AddInstruction(&ssa.WriteGlobalInstruction{Global: globalName(t.Value), Input: outputs[i]})
			} else {
				ctx.setCurrentName(t.Value, outputs[i])
			}
		case *ast.AccessCallExpr:
			ctx, err = b.buildIndexedStore(ctx, t.Name.Value, t.Args, outputs[i], false)
		case *ast.CellAccessExpr:
			ctx, err = b.buildIndexedStore(ctx, t.Name.Value, t.Args, outputs[i], true)
		}
		if err != nil || ctx == nil {
			return nil, err
		}
	}
	return ctx, nil
}

// buildIndexedStore writes value into variable(args) or variable{args}
func (b *Builder) buildIndexedStore(ctx *BlockContext, variable string, args []ast.Expr, value string, cell bool) (*BlockContext, error) {
	ref := b.readVariable(ctx, variable)
	ctx, indices, err := b.buildIndices(ctx, args, ref, causeOutput, variable+"_index")
	if err != nil || ctx == nil {
		return nil, err
	}

	previous := b.readVariable(ctx, variable)
	global := ctx.IsGlobal(variable)

	var output string
	if global {
		output = b.makeTemporary(variable)
	} else {
		output = b.makeName(ctx, variable)
	}

	if cell {
		ctx.AddInstruction(&ssa.CellSetInstruction{Output: output, Cell: previous, Indices: indices, Value: value})
	} else {
		ctx.AddInstruction(&ssa.MatrixSetInstruction{Output: output, Matrix: previous, Indices: indices, Value: value})
	}

	if global {
		ctx.AddInstruction(&ssa.WriteGlobalInstruction{Global: globalName(variable), Input: output})
	}
	return ctx, nil
}

// emptyConcatenation is the call equivalent of the literal []
func emptyConcatenation(pos, endPos ast.Position) ast.Expr {
	return &ast.AccessCallExpr{
		Pos:     pos,
		EndPos:  endPos,
		Name:    &ast.Ident{Pos: pos, EndPos: endPos, Value: "vertcat"},
		Lowered: true,
	}
}

// buildDeletion handles `x = []` and `a(idx) = []`
func (b *Builder) buildDeletion(ctx *BlockContext, s *ast.AssignStmt) (*BlockContext, error) {
	if len(s.Targets) != 1 {
		return nil, b.report(errors.AmbiguousDeletion("deletion assignment with multiple targets", s.Pos))
	}

	switch t := s.Targets[0].(type) {
	case *ast.AccessCallExpr:
		return b.buildIndexedDeletion(ctx, s, t)
	case *ast.Ident, *ast.CellAccessExpr:
		return b.buildAssignment(ctx, &ast.AssignStmt{
			Pos:     s.Pos,
			EndPos:  s.EndPos,
			Targets: s.Targets,
			Value:   emptyConcatenation(s.Value.NodePos(), s.Value.NodeEndPos()),
		})
	}

	return nil, b.fail(s.Targets[0], errors.ParseError, "invalid deletion target")
}

func isRange(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.RangeExpr:
		return true
	case *ast.AccessCallExpr:
		return x.Lowered && x.Name.Value == "colon"
	}
	return false
}

// buildIndexedDeletion removes elements along the single non-colon index.
// A deletion with several non-colon indices is only valid when one of them
// is empty, which is checked at run time.
func (b *Builder) buildIndexedDeletion(ctx *BlockContext, s *ast.AssignStmt, target *ast.AccessCallExpr) (*BlockContext, error) {
	variable := target.Name.Value
	ref := b.readVariable(ctx, variable)

	var (
		indices  []string
		position int
		ranges   int
	)
	for i, arg := range target.Args {
		if isColon(arg) {
			continue
		}
		if isRange(arg) {
			if ranges++; ranges > 1 {
				return nil, b.fail(arg, errors.CorrectnessError, "a deletion can have only one non-colon index")
			}
		}

		ctx.PushEndContext(causeDeletion, ref, i, len(target.Args))
		next, index, err := b.buildOperand(ctx, arg, fmt.Sprintf("%s_index%d", variable, i+1))
		if err != nil || next == nil {
			return nil, err
		}
		ctx = next
		ctx.PopEndContext()

		indices = append(indices, index)
		position = i
	}

	switch len(indices) {
	case 0:
		b.reporter.Report(errors.SimplifiableDeletion(variable, s.Pos))
		return b.buildDeletion(ctx, &ast.AssignStmt{
			Pos:     s.Pos,
			EndPos:  s.EndPos,
			Targets: []ast.Expr{target.Name},
			Value:   s.Value,
		})

	case 1:
		global := ctx.IsGlobal(variable)
		var output string
		if global {
			output = b.makeTemporary(variable)
		} else {
			output = b.makeName(ctx, variable)
		}

		nonColon := b.makeTemporary("non_colon_index")
		ctx.AddInstruction(&ssa.AssignmentInstruction{Output: nonColon, Kind: ssa.FromNumber, Source: strconv.Itoa(position)})
		numIndices := b.makeTemporary("num_indices")
		ctx.AddInstruction(&ssa.AssignmentInstruction{Output: numIndices, Kind: ssa.FromNumber, Source: strconv.Itoa(len(target.Args))})

		ctx.AddInstruction(&ssa.UntypedFunctionCallInstruction{
			Function: "delete_elements",
			Results:  []string{output},
			Args:     []string{ref, indices[0], nonColon, numIndices},
		})
		if global {
			ctx.AddInstruction(&ssa.WriteGlobalInstruction{Global: globalName(variable), Input: output})
		}
		return ctx, nil
	}

	b.reporter.EmitMessage(s.Pos, errors.SuspiciousCase,
		"deletion with more than one non-colon index only succeeds when an index is empty, in which case it does nothing")
	ctx.AddInstruction(&ssa.ValidateAtLeastOneEmptyMatrixInstruction{Values: indices})
	return ctx, nil
}
