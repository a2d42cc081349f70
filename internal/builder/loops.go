package builder

import (
	"mlssa/internal/ast"
	"mlssa/internal/errors"
	"mlssa/internal/parser"
	"mlssa/internal/ssa"
)

// merge binds every variable of the live sources in end, adding a phi where
// the sources disagree. It returns nil when no source is live.
func (b *Builder) merge(end *BlockContext, sources ...*BlockContext) *BlockContext {
	var live []*BlockContext
	for _, source := range sources {
		if source != nil {
			live = append(live, source)
		}
	}
	if len(live) == 0 {
		return nil
	}

	blocks := make([]int, len(live))
	for i, source := range live {
		blocks[i] = source.BlockID()
	}

	for _, variable := range live[0].Variables() {
		if end.IsGlobal(variable) {
			continue
		}

		names := make([]string, len(live))
		same := true
		for i, source := range live {
			names[i], _ = source.CurrentName(variable)
			same = same && names[i] == names[0]
		}

		if same {
			end.setCurrentName(variable, names[0])
			continue
		}
		end.AddInstruction(&ssa.PhiInstruction{
			Output:       b.makeName(end, variable),
			Variables:    names,
			SourceBlocks: blocks,
		})
	}
	return end
}

// headerPhis builds the phis of a loop header from the value before the
// loop and the value at every back edge
func (b *Builder) headerPhis(before, header *BlockContext, skip string) []ssa.Instruction {
	var phis []ssa.Instruction
	for _, variable := range before.Variables() {
		if header.IsGlobal(variable) || variable == skip {
			continue
		}

		output, _ := header.CurrentName(variable)
		entry, _ := before.CurrentName(variable)
		phi := &ssa.PhiInstruction{
			Output:       output,
			Variables:    []string{entry},
			SourceBlocks: []int{before.BlockID()},
		}
		for _, back := range header.exits.continues {
			name, _ := back.CurrentName(variable)
			phi.Variables = append(phi.Variables, name)
			phi.SourceBlocks = append(phi.SourceBlocks, back.BlockID())
		}
		phis = append(phis, phi)
	}
	return phis
}

func (b *Builder) buildIf(ctx *BlockContext, s *ast.IfStmt) (*BlockContext, error) {
	ctx.SetLine(s.Pos.Line)

	condition := b.makeTemporary("condition")
	ctx, err := b.buildExpr(ctx, s.Cond, []string{condition})
	if err != nil || ctx == nil {
		return nil, err
	}

	trueCtx := ctx.child(false)
	trueEnd, err := b.buildStatements(trueCtx, s.Then)
	if err != nil {
		return nil, err
	}
	b.checkPendingProperties(trueEnd, s.EndPos)

	falseCtx := ctx.child(false)
	falseEnd, err := b.buildStatements(falseCtx, s.Else)
	if err != nil {
		return nil, err
	}
	b.checkPendingProperties(falseEnd, s.EndPos)

	end := ctx.child(ctx.IsRoot())
	ctx.AddInstruction(&ssa.BranchInstruction{
		Condition:  condition,
		TrueBlock:  trueCtx.BlockID(),
		FalseBlock: falseCtx.BlockID(),
		EndBlock:   end.BlockID(),
	})

	// With both sides dead the join block stays empty and unreachable
	if end = b.merge(end, trueEnd, falseEnd); end == nil {
		return nil, nil
	}
	end.SetLine(s.EndPos.Line)
	return end, nil
}

func (b *Builder) buildWhile(ctx *BlockContext, s *ast.WhileStmt) (*BlockContext, error) {
	ctx.SetLine(s.Pos.Line)

	if !parser.IsConstantTrue(s.Cond) {
		return nil, b.report(errors.NotSupported("while loop with a non constant condition", s.Cond.NodePos()))
	}

	header := ctx.loopChild()
	for _, variable := range ctx.Variables() {
		if !header.IsGlobal(variable) {
			b.makeName(header, variable)
		}
	}

	body, err := b.buildStatements(header.shadow(), s.Body)
	if err != nil {
		return nil, err
	}
	b.checkPendingProperties(body, s.EndPos)
	if body != nil {
		body.doContinue()
	}

	header.Block().PrependAll(b.headerPhis(ctx, header, ""))

	after := ctx.child(ctx.IsRoot())
	ctx.AddInstruction(&ssa.WhileInstruction{LoopBlock: header.BlockID(), EndBlock: after.BlockID()})

	if after = b.merge(after, header.exits.breaks...); after == nil {
		return nil, nil
	}
	after.SetLine(s.EndPos.Line)
	return after, nil
}

func (b *Builder) buildFor(ctx *BlockContext, s *ast.ForStmt) (*BlockContext, error) {
	ctx.SetLine(s.Pos.Line)
	properties := ctx.takeLoopProperties()

	var (
		header               *BlockContext
		start, interval, end string
		err                  error
	)
	if r, ok := s.Range.(*ast.RangeExpr); ok {
		ctx, header, start, interval, end, err = b.buildRangeLoop(ctx, s.Var.Value, r)
	} else {
		ctx, header, start, interval, end, err = b.buildIterableLoop(ctx, s.Var.Value, s.Range)
	}
	if err != nil || ctx == nil {
		return nil, err
	}

	body, err := b.buildStatements(header.shadow(), s.Body)
	if err != nil {
		return nil, err
	}
	b.checkPendingProperties(body, s.EndPos)
	if body != nil {
		body.doContinue()
	}

	prologue := []ssa.Instruction{&ssa.LineInstruction{Line: s.Pos.Line}}
	prologue = append(prologue, b.headerPhis(ctx, header, s.Var.Value)...)
	header.Block().PrependAll(prologue)

	after := ctx.child(ctx.IsRoot())
	ctx.AddInstruction(&ssa.ForInstruction{
		Start:      start,
		Interval:   interval,
		End:        end,
		LoopBlock:  header.BlockID(),
		EndBlock:   after.BlockID(),
		Properties: properties,
	})

	// A counted loop may also finish after zero iterations or at any back edge
	sources := []*BlockContext{ctx}
	sources = append(sources, header.exits.breaks...)
	sources = append(sources, header.exits.continues...)
	after = b.merge(after, sources...)
	after.SetLine(s.EndPos.Line)
	return after, nil
}

// buildRangeLoop evaluates the bounds of `for v = start:step:end` and binds v
// to the loop counter in the header
func (b *Builder) buildRangeLoop(ctx *BlockContext, variable string, r *ast.RangeExpr) (*BlockContext, *BlockContext, string, string, string, error) {
	start := b.makeTemporary("start")
	ctx, err := b.buildExpr(ctx, r.Start, []string{start})
	if err != nil || ctx == nil {
		return nil, nil, "", "", "", err
	}

	interval := b.makeTemporary("interval")
	if r.Step == nil {
		ctx.AddInstruction(&ssa.AssignmentInstruction{Output: interval, Kind: ssa.FromNumber, Source: "1"})
	} else if ctx, err = b.buildExpr(ctx, r.Step, []string{interval}); err != nil || ctx == nil {
		return nil, nil, "", "", "", err
	}

	end := b.makeTemporary("end")
	if ctx, err = b.buildExpr(ctx, r.End, []string{end}); err != nil || ctx == nil {
		return nil, nil, "", "", "", err
	}

	header := b.loopHeader(ctx, variable)
	counter := b.inductionName(header, variable)
	header.AddInstruction(&ssa.IterInstruction{Output: counter})
	if header.IsGlobal(variable) {
		header.AddInstruction(&ssa.WriteGlobalInstruction{Global: globalName(variable), Input: counter})
	}
	return ctx, header, start, interval, end, nil
}

// buildIterableLoop handles `for v = expr`, where v takes each column of expr
func (b *Builder) buildIterableLoop(ctx *BlockContext, variable string, iterable ast.Expr) (*BlockContext, *BlockContext, string, string, string, error) {
	source := b.makeTemporary("source")
	ctx, err := b.buildExpr(ctx, iterable, []string{source})
	if err != nil || ctx == nil {
		return nil, nil, "", "", "", err
	}

	start := b.makeTemporary("start")
	ctx.AddInstruction(&ssa.AssignmentInstruction{Output: start, Kind: ssa.FromNumber, Source: "1"})
	interval := b.makeTemporary("interval")
	ctx.AddInstruction(&ssa.AssignmentInstruction{Output: interval, Kind: ssa.FromNumber, Source: "1"})
	lines := b.makeTemporary("lines")
	ctx.AddInstruction(&ssa.EndInstruction{Output: lines, Matrix: source, Index: 0, NumIndices: 2})
	end := b.makeTemporary("end")
	ctx.AddInstruction(&ssa.EndInstruction{Output: end, Matrix: source, Index: 1, NumIndices: 2})
	rows := b.makeTemporary("rows")
	ctx.AddInstruction(&ssa.UntypedFunctionCallInstruction{
		Function: "colon",
		Results:  []string{rows},
		Args:     []string{start, lines},
	})

	header := b.loopHeader(ctx, variable)
	index := b.makeTemporary("iter")
	element := b.inductionName(header, variable)
	header.AddInstruction(&ssa.IterInstruction{Output: index})
	header.AddInstruction(&ssa.MatrixGetInstruction{Output: element, Matrix: source, Indices: []string{rows, index}})
	if header.IsGlobal(variable) {
		header.AddInstruction(&ssa.WriteGlobalInstruction{Global: globalName(variable), Input: element})
	}
	return ctx, header, start, interval, end, nil
}

// loopHeader opens the header of a for loop, rebinding every local except
// the induction variable
func (b *Builder) loopHeader(ctx *BlockContext, variable string) *BlockContext {
	header := ctx.loopChild()
	for _, name := range ctx.Variables() {
		if name != variable && !header.IsGlobal(name) {
			b.makeName(header, name)
		}
	}
	return header
}

func (b *Builder) inductionName(header *BlockContext, variable string) string {
	if header.IsGlobal(variable) {
		return b.makeTemporary(variable)
	}
	return b.makeName(header, variable)
}
