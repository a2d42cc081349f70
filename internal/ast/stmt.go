package ast

type Stmt interface {
	Node
	isStmt()
}

// AssignStmt represents "x = e", "a(i) = e" or "[a, ~, c] = f(x)".
// Display is set when the statement is not terminated by a semicolon.
type AssignStmt struct {
	Pos     Position
	EndPos  Position
	Targets []Expr
	Value   Expr
	Display bool
}

// ExprStmt is an expression evaluated for its effects, e.g. "disp(x)"
type ExprStmt struct {
	Pos     Position
	EndPos  Position
	X       Expr
	Display bool
}

// IfStmt represents if/elseif/else. An elseif is an IfStmt alone in Else.
type IfStmt struct {
	Pos    Position
	EndPos Position
	Cond   Expr
	Then   []Stmt
	Else   []Stmt
}

type WhileStmt struct {
	Pos    Position
	EndPos Position
	Cond   Expr
	Body   []Stmt
}

// ForStmt represents "for i = expr ... end"
type ForStmt struct {
	Pos    Position
	EndPos Position
	Var    *Ident
	Range  Expr
	Body   []Stmt
}

type BreakStmt struct {
	Pos    Position
	EndPos Position
}

type ContinueStmt struct {
	Pos    Position
	EndPos Position
}

// GlobalStmt represents "global a b c"
type GlobalStmt struct {
	Pos    Position
	EndPos Position
	Names  []*Ident
}

// CommentStmt keeps a line comment; Text excludes the leading %
type CommentStmt struct {
	Pos    Position
	EndPos Position
	Text   string
}

func (*AssignStmt) isStmt()   {}
func (*ExprStmt) isStmt()     {}
func (*IfStmt) isStmt()       {}
func (*WhileStmt) isStmt()    {}
func (*ForStmt) isStmt()      {}
func (*BreakStmt) isStmt()    {}
func (*ContinueStmt) isStmt() {}
func (*GlobalStmt) isStmt()   {}
func (*CommentStmt) isStmt()  {}
