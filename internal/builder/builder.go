package builder

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/tliron/commonlog"

	"mlssa/internal/ast"
	"mlssa/internal/config"
	"mlssa/internal/errors"
	"mlssa/internal/ssa"
)

var log = commonlog.GetLogger("mlssa.builder")

// DirectiveParser handles comments that start with the directive marker. It
// acts on the context it is given and reports its own diagnostics. A returned
// error aborts construction.
type DirectiveParser interface {
	ParseDirective(stmt *ast.CommentStmt, ctx *BlockContext, cfg *config.Config) error
}

// Builder converts one function body to SSA form
type Builder struct {
	cfg        *config.Config
	reporter   errors.Reporter
	directives DirectiveParser

	body     *ssa.FunctionBody
	builtins mapset.Set[string]
	versions map[string]int
}

func newBuilder(body *ssa.FunctionBody, cfg *config.Config, reporter errors.Reporter, directives DirectiveParser) *Builder {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Builder{
		cfg:        cfg,
		reporter:   reporter,
		directives: directives,
		body:       body,
		builtins:   cfg.BuiltinSet(),
		versions:   make(map[string]int),
	}
}

// BuildFunction builds the SSA form of a function. The returned error is set
// only when construction was aborted; other diagnostics go to the reporter.
func BuildFunction(fn *ast.Function, cfg *config.Config, reporter errors.Reporter, directives DirectiveParser) (*ssa.FunctionBody, error) {
	body := ssa.NewFunctionBody(fn.Name.Value, fn.Pos.Line, fn.InputNames(), fn.OutputNames())
	b := newBuilder(body, cfg, reporter, directives)

	root := newRootContext(body)
	root.SetLine(fn.Pos.Line)

	declared := mapset.NewThreadUnsafeSet[string]()
	for i, param := range fn.Inputs {
		if param.Ignored {
			continue
		}
		if !declared.Add(param.Name) {
			b.reporter.Report(errors.DuplicateInput(param.Name, param.Pos))
			continue
		}
		if b.builtins.Contains(param.Name) {
			b.reporter.Report(errors.ShadowedBuiltin(param.Name, param.Pos))
		}
		root.AddInstruction(&ssa.ArgumentInstruction{Output: b.makeName(root, param.Name), Index: i})
	}

	b.declareVariables(root, fn.Body)

	final, err := b.buildStatements(root, fn.Body)
	if err != nil {
		return nil, err
	}
	b.checkPendingProperties(final, fn.EndPos)

	if final != nil {
		final.SetLine(fn.EndPos.Line)
		for _, output := range fn.Outputs {
			b.bindOutput(final, output.Value)
		}
	}

	log.Debugf("built %s: %d blocks", fn.Name.Value, body.NumBlocks())
	return body, nil
}

// BuildScript builds the SSA form of a script body, which has no inputs or outputs
func BuildScript(stmts []ast.Stmt, cfg *config.Config, reporter errors.Reporter, directives DirectiveParser) (*ssa.FunctionBody, error) {
	firstLine := 1
	if len(stmts) > 0 {
		firstLine = stmts[0].NodePos().Line
	}

	body := ssa.NewFunctionBody("", firstLine, nil, nil)
	b := newBuilder(body, cfg, reporter, directives)

	root := newRootContext(body)
	b.declareVariables(root, stmts)

	final, err := b.buildStatements(root, stmts)
	if err != nil {
		return nil, err
	}
	if len(stmts) > 0 {
		b.checkPendingProperties(final, stmts[len(stmts)-1].NodeEndPos())
	}

	log.Debugf("built script: %d blocks", body.NumBlocks())
	return body, nil
}

// declareVariables binds every builtin the body references and gives every
// other assigned variable an undefined value, so each read finds a name.
func (b *Builder) declareVariables(root *BlockContext, stmts []ast.Stmt) {
	referenced := mapset.NewThreadUnsafeSet[string]()
	var assigned []string
	seen := mapset.NewThreadUnsafeSet[string]()
	assign := func(name string) {
		if seen.Add(name) {
			assigned = append(assigned, name)
		}
	}

	ast.InspectStmts(stmts, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.Ident:
			referenced.Add(n.Value)
		case *ast.AssignStmt:
			for _, target := range n.Targets {
				if name, ok := targetName(target); ok {
					assign(name)
				}
			}
		case *ast.ForStmt:
			assign(n.Var.Value)
		case *ast.GlobalStmt:
			for _, name := range n.Names {
				assign(name.Value)
			}
		}
		return true
	})

	for _, builtin := range b.cfg.Builtins {
		if !root.HasVariable(builtin) && referenced.Contains(builtin) {
			root.AddInstruction(&ssa.BuiltinVariableInstruction{Output: b.makeName(root, builtin), Name: builtin})
		}
	}

	for _, name := range assigned {
		if !root.HasVariable(name) {
			root.AddInstruction(&ssa.AssignmentInstruction{Output: b.makeName(root, name), Kind: ssa.FromUndefined})
		}
	}
}

func targetName(target ast.Expr) (string, bool) {
	switch t := target.(type) {
	case *ast.Ident:
		return t.Value, true
	case *ast.AccessCallExpr:
		return t.Name.Value, true
	case *ast.CellAccessExpr:
		return t.Name.Value, true
	}
	return "", false
}

// bindOutput copies the final value of an output into name$ret
func (b *Builder) bindOutput(ctx *BlockContext, name string) {
	output := name + "$ret"

	if ctx.IsGlobal(name) {
		ctx.AddInstruction(&ssa.ReadGlobalInstruction{Output: output, Global: globalName(name)})
		return
	}
	if current, ok := ctx.CurrentName(name); ok {
		ctx.AddInstruction(&ssa.AssignmentInstruction{Output: output, Kind: ssa.FromVariable, Source: current})
		return
	}
	ctx.AddInstruction(&ssa.AssignmentInstruction{Output: output, Kind: ssa.FromUndefined})
}

func (b *Builder) checkPendingProperties(ctx *BlockContext, pos ast.Position) {
	if ctx != nil && len(ctx.PendingLoopProperties()) > 0 {
		b.reporter.Report(errors.MisplacedLoopProperty(pos))
		ctx.takeLoopProperties()
	}
}

func globalName(name string) string {
	return "^" + name
}

// makeName mints the next version of a variable and binds it in ctx
func (b *Builder) makeName(ctx *BlockContext, variable string) string {
	name := b.newName(variable)
	ctx.setCurrentName(variable, name)
	return name
}

// newName mints the next version of a variable without binding it
func (b *Builder) newName(variable string) string {
	b.versions[variable]++
	return fmt.Sprintf("%s$%d", variable, b.versions[variable])
}

func (b *Builder) makeTemporary(tag string) string {
	return b.body.MakeTemporary(tag)
}

// readVariable returns a name holding the variable's value. Globals are read
// into a fresh temporary at every use.
func (b *Builder) readVariable(ctx *BlockContext, variable string) string {
	if ctx.IsGlobal(variable) {
		name := b.makeTemporary(variable)
		ctx.AddInstruction(&ssa.ReadGlobalInstruction{Output: name, Global: globalName(variable)})
		return name
	}
	name, _ := ctx.CurrentName(variable)
	return name
}

// fail reports an error at node. It returns an error only for categories that
// abort construction; callers end the current path otherwise.
func (b *Builder) fail(node ast.Node, category errors.Category, format string, args ...interface{}) error {
	err := b.reporter.EmitError(node.NodePos(), category, fmt.Sprintf(format, args...))
	if category.Fatal() {
		return err
	}
	return nil
}

// report records a prebuilt diagnostic with the same abort rule as fail
func (b *Builder) report(diagnostic errors.CompilerError) error {
	err := b.reporter.Report(diagnostic)
	if err != nil && errors.CategoryOf(diagnostic.Code).Fatal() {
		return err
	}
	return nil
}

func (b *Builder) buildStatements(ctx *BlockContext, stmts []ast.Stmt) (*BlockContext, error) {
	for _, stmt := range stmts {
		if ctx == nil {
			break
		}
		var err error
		ctx, err = b.buildStatement(ctx, stmt)
		if err != nil {
			return nil, err
		}
	}
	return ctx, nil
}

func (b *Builder) buildStatement(ctx *BlockContext, stmt ast.Stmt) (*BlockContext, error) {
	if len(ctx.PendingLoopProperties()) > 0 {
		switch stmt.(type) {
		case *ast.CommentStmt, *ast.ForStmt:
		default:
			b.reporter.Report(errors.MisplacedLoopProperty(stmt.NodePos()))
			ctx.takeLoopProperties()
		}
	}

	switch s := stmt.(type) {
	case *ast.AssignStmt:
		ctx.SetLine(s.Pos.Line)
		return b.buildAssignment(ctx, s)

	case *ast.ExprStmt:
		ctx.SetLine(s.Pos.Line)
		return b.buildExprStatement(ctx, s)

	case *ast.IfStmt:
		return b.buildIf(ctx, s)

	case *ast.WhileStmt:
		return b.buildWhile(ctx, s)

	case *ast.ForStmt:
		return b.buildFor(ctx, s)

	case *ast.BreakStmt:
		ctx.SetLine(s.Pos.Line)
		ctx.AddInstruction(&ssa.BreakInstruction{})
		if !ctx.doBreak() {
			b.reporter.Report(errors.OutsideLoop("break", s.Pos))
		}
		return nil, nil

	case *ast.ContinueStmt:
		ctx.SetLine(s.Pos.Line)
		ctx.AddInstruction(&ssa.ContinueInstruction{})
		if !ctx.doContinue() {
			b.reporter.Report(errors.OutsideLoop("continue", s.Pos))
		}
		return nil, nil

	case *ast.GlobalStmt:
		ctx.SetLine(s.Pos.Line)
		if !ctx.IsRoot() {
			for _, name := range s.Names {
				b.reporter.Report(errors.GlobalOutsideRoot(name.Value, name.Pos))
			}
			return ctx, nil
		}
		for _, name := range s.Names {
			ctx.AddGlobal(name.Value)
		}
		return ctx, nil

	case *ast.CommentStmt:
		ctx.SetLine(s.Pos.Line)
		if b.cfg.IsDirective(strings.TrimSpace(s.Text)) {
			return ctx, b.buildDirective(ctx, s)
		}
		ctx.AddInstruction(&ssa.CommentInstruction{Text: s.Text})
		return ctx, nil
	}

	return nil, b.fail(stmt, errors.NotYetImplementedError, "statement %s", stmt.NodeType())
}

func (b *Builder) buildDirective(ctx *BlockContext, stmt *ast.CommentStmt) error {
	if b.directives == nil {
		name := strings.TrimPrefix(strings.TrimSpace(stmt.Text), b.cfg.DirectiveMarker)
		return b.report(errors.UnrecognizedDirective(name, stmt.Pos, nil))
	}
	return b.directives.ParseDirective(stmt, ctx, b.cfg)
}

// checkDisplay rejects statements whose result would be printed
func (b *Builder) checkDisplay(node ast.Node, display bool) error {
	if display && !b.cfg.SuppressPrinting {
		return b.report(errors.NotYetImplemented("displaying results", node.NodePos()))
	}
	return nil
}

func (b *Builder) buildExprStatement(ctx *BlockContext, s *ast.ExprStmt) (*BlockContext, error) {
	if err := b.checkDisplay(s, s.Display); err != nil {
		return nil, err
	}

	if b.isCall(ctx, s.X) {
		return b.buildExpr(ctx, s.X, nil)
	}
	return b.buildExpr(ctx, s.X, []string{b.makeTemporary("ans")})
}

// isCall reports whether e is a function call, which may produce no value
func (b *Builder) isCall(ctx *BlockContext, e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.Ident:
		return !ctx.HasVariable(x.Value) && !ctx.IsGlobal(x.Value)
	case *ast.AccessCallExpr:
		return x.Lowered || (!ctx.HasVariable(x.Name.Value) && !ctx.IsGlobal(x.Name.Value))
	}
	return false
}
