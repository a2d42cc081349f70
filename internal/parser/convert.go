package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"mlssa/grammar"
	"mlssa/internal/ast"
)

// Operators are lowered to the functions that implement them
var binaryOperators = map[string]string{
	"+":   "plus",
	"-":   "minus",
	"*":   "mtimes",
	"/":   "mrdivide",
	"\\":  "mldivide",
	".*":  "times",
	"./":  "rdivide",
	".\\": "ldivide",
	"^":   "mpower",
	".^":  "power",
	"==":  "eq",
	"~=":  "ne",
	"<":   "lt",
	"<=":  "le",
	">":   "gt",
	">=":  "ge",
	"&":   "and",
	"|":   "or",
}

var unaryOperators = map[string]string{
	"-": "uminus",
	"+": "uplus",
	"~": "not",
	"!": "not",
}

func convertPos(p lexer.Position) ast.Position {
	return ast.Position{
		Filename: p.Filename,
		Offset:   p.Offset,
		Line:     p.Line,
		Column:   p.Column,
	}
}

func errorAt(pos lexer.Position, message string) error {
	return ParseError{Position: convertPos(pos), Message: message}
}

func convertFile(f *grammar.File) (*ast.File, error) {
	file := &ast.File{Pos: convertPos(f.Pos), EndPos: convertPos(f.EndPos)}

	for _, item := range f.Items {
		if item.Function != nil {
			fn, err := convertFunction(item.Function)
			if err != nil {
				return nil, err
			}
			file.Functions = append(file.Functions, fn)
			continue
		}

		stmt, err := convertStatement(item.Statement)
		if err != nil {
			return nil, err
		}
		file.Script = append(file.Script, stmt)
	}

	// Header comments of a function file belong to no body
	if len(file.Functions) > 0 && onlyComments(file.Script) {
		file.Script = nil
	}

	return file, nil
}

func onlyComments(stmts []ast.Stmt) bool {
	for _, stmt := range stmts {
		if _, ok := stmt.(*ast.CommentStmt); !ok {
			return false
		}
	}
	return true
}

func convertIdent(i *grammar.Ident) *ast.Ident {
	return &ast.Ident{Pos: convertPos(i.Pos), EndPos: convertPos(i.EndPos), Value: i.Value}
}

func convertFunction(f *grammar.Function) (*ast.Function, error) {
	fn := &ast.Function{
		Pos:    convertPos(f.Pos),
		EndPos: convertPos(f.EndPos),
		Name:   convertIdent(f.Name),
	}

	for _, p := range f.Params {
		fn.Inputs = append(fn.Inputs, &ast.Param{
			Pos:     convertPos(p.Pos),
			EndPos:  convertPos(p.EndPos),
			Name:    p.Name,
			Ignored: p.Name == "~",
		})
	}
	for _, o := range f.Outputs {
		fn.Outputs = append(fn.Outputs, convertIdent(o))
	}

	body, err := convertStatements(f.Body)
	if err != nil {
		return nil, err
	}
	fn.Body = body

	return fn, nil
}

func convertStatements(stmts []*grammar.Statement) ([]ast.Stmt, error) {
	var result []ast.Stmt
	for _, s := range stmts {
		stmt, err := convertStatement(s)
		if err != nil {
			return nil, err
		}
		result = append(result, stmt)
	}
	return result, nil
}

func convertStatement(s *grammar.Statement) (ast.Stmt, error) {
	pos, endPos := convertPos(s.Pos), convertPos(s.EndPos)

	switch {
	case s.Comment != nil:
		return &ast.CommentStmt{Pos: pos, EndPos: endPos, Text: strings.TrimPrefix(*s.Comment, "%")}, nil

	case s.If != nil:
		return convertIf(s.If)

	case s.While != nil:
		cond, err := convertExpr(s.While.Cond)
		if err != nil {
			return nil, err
		}
		body, err := convertStatements(s.While.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Pos: pos, EndPos: endPos, Cond: cond, Body: body}, nil

	case s.For != nil:
		rng, err := convertExpr(s.For.Range)
		if err != nil {
			return nil, err
		}
		body, err := convertStatements(s.For.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ForStmt{Pos: pos, EndPos: endPos, Var: convertIdent(s.For.Var), Range: rng, Body: body}, nil

	case s.Break:
		return &ast.BreakStmt{Pos: pos, EndPos: endPos}, nil

	case s.Continue:
		return &ast.ContinueStmt{Pos: pos, EndPos: endPos}, nil

	case len(s.Global) > 0:
		global := &ast.GlobalStmt{Pos: pos, EndPos: endPos}
		for _, name := range s.Global {
			global.Names = append(global.Names, convertIdent(name))
		}
		return global, nil

	case s.Assign != nil:
		return convertAssign(s.Assign)

	case s.Expr != nil:
		x, err := convertExpr(s.Expr.X)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Pos: pos, EndPos: endPos, X: x, Display: !s.Expr.Semi}, nil
	}

	return nil, errorAt(s.Pos, "unrecognized statement")
}

// convertIf nests each elseif as an if inside the else branch of the previous one
func convertIf(s *grammar.If) (ast.Stmt, error) {
	var elseBody []ast.Stmt
	var err error
	if s.Else != nil {
		elseBody, err = convertStatements(s.Else.Body)
		if err != nil {
			return nil, err
		}
	}

	for i := len(s.ElseIfs) - 1; i >= 0; i-- {
		elseIf := s.ElseIfs[i]
		cond, err := convertExpr(elseIf.Cond)
		if err != nil {
			return nil, err
		}
		then, err := convertStatements(elseIf.Body)
		if err != nil {
			return nil, err
		}
		elseBody = []ast.Stmt{&ast.IfStmt{
			Pos:    convertPos(elseIf.Pos),
			EndPos: convertPos(s.EndPos),
			Cond:   cond,
			Then:   then,
			Else:   elseBody,
		}}
	}

	cond, err := convertExpr(s.Cond)
	if err != nil {
		return nil, err
	}
	then, err := convertStatements(s.Then)
	if err != nil {
		return nil, err
	}

	return &ast.IfStmt{
		Pos:    convertPos(s.Pos),
		EndPos: convertPos(s.EndPos),
		Cond:   cond,
		Then:   then,
		Else:   elseBody,
	}, nil
}

func convertAssign(s *grammar.Assign) (ast.Stmt, error) {
	assign := &ast.AssignStmt{
		Pos:     convertPos(s.Pos),
		EndPos:  convertPos(s.EndPos),
		Display: !s.Semi,
	}

	for _, t := range s.Targets {
		target, err := convertTarget(t)
		if err != nil {
			return nil, err
		}
		assign.Targets = append(assign.Targets, target)
	}

	value, err := convertExpr(s.Value)
	if err != nil {
		return nil, err
	}
	assign.Value = value

	return assign, nil
}

func convertTarget(t *grammar.Target) (ast.Expr, error) {
	pos, endPos := convertPos(t.Pos), convertPos(t.EndPos)
	if t.Tilde {
		return &ast.TildeExpr{Pos: pos, EndPos: endPos}, nil
	}

	name := &ast.Ident{Pos: pos, EndPos: endPos, Value: t.Name}
	if t.Index == nil {
		return name, nil
	}
	return convertIndex(name, t.Index, pos, endPos)
}

func convertIndex(name *ast.Ident, index *grammar.Index, pos, endPos ast.Position) (ast.Expr, error) {
	args, err := convertArgs(index.Args)
	if err != nil {
		return nil, err
	}
	if index.Brace {
		return &ast.CellAccessExpr{Pos: pos, EndPos: endPos, Name: name, Args: args}, nil
	}
	return &ast.AccessCallExpr{Pos: pos, EndPos: endPos, Name: name, Args: args}, nil
}

func convertArgs(args []*grammar.Arg) ([]ast.Expr, error) {
	result := make([]ast.Expr, 0, len(args))
	for _, arg := range args {
		if arg.Colon {
			result = append(result, &ast.ColonExpr{Pos: convertPos(arg.Pos), EndPos: convertPos(arg.EndPos)})
			continue
		}
		e, err := convertExpr(arg.Expr)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

// lowered builds the call implementing an operator
func lowered(op string, pos lexer.Position, endPos lexer.Position, args ...ast.Expr) ast.Expr {
	return &ast.AccessCallExpr{
		Pos:     convertPos(pos),
		EndPos:  convertPos(endPos),
		Name:    &ast.Ident{Pos: convertPos(pos), EndPos: convertPos(pos), Value: op},
		Args:    args,
		Lowered: true,
	}
}

func convertExpr(e *grammar.Expr) (ast.Expr, error) {
	result, err := convertAnd(e.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Right {
		right, err := convertAnd(r)
		if err != nil {
			return nil, err
		}
		result = &ast.ShortCircuitExpr{Pos: convertPos(e.Pos), EndPos: convertPos(r.EndPos), Op: "||", Left: result, Right: right}
	}
	return result, nil
}

func convertAnd(e *grammar.AndExpr) (ast.Expr, error) {
	result, err := convertOr(e.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Right {
		right, err := convertOr(r)
		if err != nil {
			return nil, err
		}
		result = &ast.ShortCircuitExpr{Pos: convertPos(e.Pos), EndPos: convertPos(r.EndPos), Op: "&&", Left: result, Right: right}
	}
	return result, nil
}

func convertOr(e *grammar.OrExpr) (ast.Expr, error) {
	result, err := convertElemAnd(e.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Right {
		right, err := convertElemAnd(r)
		if err != nil {
			return nil, err
		}
		result = lowered(binaryOperators["|"], e.Pos, r.EndPos, result, right)
	}
	return result, nil
}

func convertElemAnd(e *grammar.ElemAndExpr) (ast.Expr, error) {
	result, err := convertCmp(e.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Right {
		right, err := convertCmp(r)
		if err != nil {
			return nil, err
		}
		result = lowered(binaryOperators["&"], e.Pos, r.EndPos, result, right)
	}
	return result, nil
}

func convertCmp(e *grammar.CmpExpr) (ast.Expr, error) {
	result, err := convertRange(e.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range e.Ops {
		right, err := convertRange(op.Right)
		if err != nil {
			return nil, err
		}
		result = lowered(binaryOperators[op.Op], e.Pos, e.EndPos, result, right)
	}
	return result, nil
}

func convertRange(e *grammar.RangeExpr) (ast.Expr, error) {
	parts := make([]ast.Expr, len(e.Parts))
	for i, p := range e.Parts {
		part, err := convertAdd(p)
		if err != nil {
			return nil, err
		}
		parts[i] = part
	}

	pos, endPos := convertPos(e.Pos), convertPos(e.EndPos)
	switch len(parts) {
	case 1:
		return parts[0], nil
	case 2:
		return &ast.RangeExpr{Pos: pos, EndPos: endPos, Start: parts[0], End: parts[1]}, nil
	case 3:
		return &ast.RangeExpr{Pos: pos, EndPos: endPos, Start: parts[0], Step: parts[1], End: parts[2]}, nil
	default:
		return nil, errorAt(e.Pos, "range expression has too many ':' operators")
	}
}

func convertAdd(e *grammar.AddExpr) (ast.Expr, error) {
	result, err := convertMul(e.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range e.Ops {
		right, err := convertMul(op.Right)
		if err != nil {
			return nil, err
		}
		result = lowered(binaryOperators[op.Op], e.Pos, e.EndPos, result, right)
	}
	return result, nil
}

func convertMul(e *grammar.MulExpr) (ast.Expr, error) {
	result, err := convertUnary(e.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range e.Ops {
		right, err := convertUnary(op.Right)
		if err != nil {
			return nil, err
		}
		result = lowered(binaryOperators[op.Op], e.Pos, e.EndPos, result, right)
	}
	return result, nil
}

func convertUnary(e *grammar.UnaryExpr) (ast.Expr, error) {
	if e.Power != nil {
		return convertPower(e.Power)
	}
	operand, err := convertUnary(e.Operand)
	if err != nil {
		return nil, err
	}
	return lowered(unaryOperators[e.Op], e.Pos, e.EndPos, operand), nil
}

func convertPower(e *grammar.PowerExpr) (ast.Expr, error) {
	result, err := convertPrimary(e.Base)
	if err != nil {
		return nil, err
	}
	for _, op := range e.Ops {
		exponent, err := convertPrimary(op.Exponent)
		if err != nil {
			return nil, err
		}
		result = lowered(binaryOperators[op.Op], e.Pos, e.EndPos, result, exponent)
	}
	return result, nil
}

func convertPrimary(p *grammar.Primary) (ast.Expr, error) {
	pos, endPos := convertPos(p.Pos), convertPos(p.EndPos)

	switch {
	case p.Number != nil:
		return &ast.NumberLit{Pos: pos, EndPos: endPos, Value: *p.Number}, nil
	case p.String != nil:
		return &ast.StringLit{Pos: pos, EndPos: endPos, Value: unquote(*p.String)}, nil
	case p.End:
		return &ast.EndExpr{Pos: pos, EndPos: endPos}, nil
	case p.Access != nil:
		name := convertIdent(p.Access.Name)
		if p.Access.Index == nil {
			return name, nil
		}
		return convertIndex(name, p.Access.Index, pos, endPos)
	case p.Matrix != nil:
		rows, err := convertRows(p.Matrix.Rows)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return &ast.MatrixExpr{Pos: pos, EndPos: endPos}, nil
		}
		return concatenate(rows, p.Pos, p.EndPos), nil
	case p.Cell != nil:
		rows, err := convertRows(p.Cell.Rows)
		if err != nil {
			return nil, err
		}
		return &ast.CellExpr{Pos: pos, EndPos: endPos, Rows: rows}, nil
	case p.Paren != nil:
		return convertExpr(p.Paren)
	}

	return nil, errorAt(p.Pos, "unrecognized expression")
}

func convertRows(rows []*grammar.Row) ([][]ast.Expr, error) {
	var result [][]ast.Expr
	for _, row := range rows {
		var elems []ast.Expr
		for _, e := range row.Elems {
			elem, err := convertExpr(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		result = append(result, elems)
	}
	return result, nil
}

// concatenate lowers a matrix literal to vertcat over one horzcat per row
func concatenate(rows [][]ast.Expr, pos, endPos lexer.Position) ast.Expr {
	lines := make([]ast.Expr, len(rows))
	for i, row := range rows {
		lines[i] = lowered("horzcat", pos, endPos, row...)
	}
	return lowered("vertcat", pos, endPos, lines...)
}

// unquote strips the delimiters of a string literal and collapses doubled quotes
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	quote := s[:1]
	return strings.ReplaceAll(s[1:len(s)-1], quote+quote, quote)
}
