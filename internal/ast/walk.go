package ast

// Inspect traverses the tree depth first, calling f for each node before its
// children. Children are skipped when f returns false.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	visitChildren(node, f)
}

func inspectStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Inspect(stmt, f)
	}
}

func inspectExprs(exprs []Expr, f func(Node) bool) {
	for _, e := range exprs {
		Inspect(e, f)
	}
}

func visitChildren(node Node, f func(Node) bool) {
	switch n := node.(type) {
	case *File:
		inspectStmts(n.Script, f)
		for _, fn := range n.Functions {
			Inspect(fn, f)
		}

	case *Function:
		Inspect(n.Name, f)
		for _, p := range n.Inputs {
			Inspect(p, f)
		}
		for _, o := range n.Outputs {
			Inspect(o, f)
		}
		inspectStmts(n.Body, f)

	case *AssignStmt:
		inspectExprs(n.Targets, f)
		Inspect(n.Value, f)

	case *ExprStmt:
		Inspect(n.X, f)

	case *IfStmt:
		Inspect(n.Cond, f)
		inspectStmts(n.Then, f)
		inspectStmts(n.Else, f)

	case *WhileStmt:
		Inspect(n.Cond, f)
		inspectStmts(n.Body, f)

	case *ForStmt:
		Inspect(n.Var, f)
		Inspect(n.Range, f)
		inspectStmts(n.Body, f)

	case *GlobalStmt:
		for _, name := range n.Names {
			Inspect(name, f)
		}

	case *AccessCallExpr:
		Inspect(n.Name, f)
		inspectExprs(n.Args, f)

	case *CellAccessExpr:
		Inspect(n.Name, f)
		inspectExprs(n.Args, f)

	case *RangeExpr:
		Inspect(n.Start, f)
		if n.Step != nil {
			Inspect(n.Step, f)
		}
		Inspect(n.End, f)

	case *ShortCircuitExpr:
		Inspect(n.Left, f)
		Inspect(n.Right, f)

	case *MatrixExpr:
		for _, row := range n.Rows {
			inspectExprs(row, f)
		}

	case *CellExpr:
		for _, row := range n.Rows {
			inspectExprs(row, f)
		}
	}
}

// InspectStmts traverses a statement list
func InspectStmts(stmts []Stmt, f func(Node) bool) {
	inspectStmts(stmts, f)
}
