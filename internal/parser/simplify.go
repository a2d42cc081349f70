package parser

import (
	"mlssa/internal/ast"
)

// CanonicalizeWhile rewrites every `while c, body, end` whose condition is not
// the constant 1 into `while 1, if c, else, break, end, body, end` so loop
// headers never evaluate a condition.
func CanonicalizeWhile(file *ast.File) {
	file.Script = canonicalizeBody(file.Script)
	for _, fn := range file.Functions {
		fn.Body = canonicalizeBody(fn.Body)
	}
}

func canonicalizeBody(body []ast.Stmt) []ast.Stmt {
	for i, stmt := range body {
		body[i] = canonicalizeStmt(stmt)
	}
	return body
}

func canonicalizeStmt(stmt ast.Stmt) ast.Stmt {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		s.Then = canonicalizeBody(s.Then)
		s.Else = canonicalizeBody(s.Else)
	case *ast.ForStmt:
		s.Body = canonicalizeBody(s.Body)
	case *ast.WhileStmt:
		s.Body = canonicalizeBody(s.Body)
		if IsConstantTrue(s.Cond) {
			return s
		}

		guard := &ast.IfStmt{
			Pos:    s.Cond.NodePos(),
			EndPos: s.Cond.NodeEndPos(),
			Cond:   s.Cond,
			Else:   []ast.Stmt{&ast.BreakStmt{Pos: s.Cond.NodePos(), EndPos: s.Cond.NodeEndPos()}},
		}
		s.Cond = &ast.NumberLit{Pos: s.Cond.NodePos(), EndPos: s.Cond.NodeEndPos(), Value: "1"}
		s.Body = append([]ast.Stmt{guard}, s.Body...)
	}
	return stmt
}

// IsConstantTrue reports whether a loop condition is the literal 1
func IsConstantTrue(e ast.Expr) bool {
	n, ok := e.(*ast.NumberLit)
	return ok && n.Value == "1"
}
