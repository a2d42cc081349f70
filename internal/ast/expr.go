package ast

type Expr interface {
	Node
	isExpr()
}

// Ident represents any identifier like variable or function names
type Ident struct {
	Pos    Position
	EndPos Position
	Value  string
}

// NumberLit keeps the literal text, e.g. "1", "2.5e3"
type NumberLit struct {
	Pos    Position
	EndPos Position
	Value  string
}

// StringLit holds the unquoted value of '...' or "..."
type StringLit struct {
	Pos    Position
	EndPos Position
	Value  string
}

// AccessCallExpr is "name(args)": a matrix access when name is a variable,
// a function call otherwise. Lowered marks calls synthesized from operators,
// which never index a variable.
type AccessCallExpr struct {
	Pos     Position
	EndPos  Position
	Name    *Ident
	Args    []Expr
	Lowered bool
}

// CellAccessExpr is "name{args}"
type CellAccessExpr struct {
	Pos    Position
	EndPos Position
	Name   *Ident
	Args   []Expr
}

// ColonExpr is a lone ":" used as an index
type ColonExpr struct {
	Pos    Position
	EndPos Position
}

// EndExpr is "end" used inside an index
type EndExpr struct {
	Pos    Position
	EndPos Position
}

// RangeExpr is "start:end" or "start:step:end"; Step is nil when omitted
type RangeExpr struct {
	Pos    Position
	EndPos Position
	Start  Expr
	Step   Expr
	End    Expr
}

// ShortCircuitExpr is "a && b" or "a || b"
type ShortCircuitExpr struct {
	Pos    Position
	EndPos Position
	Op     string
	Left   Expr
	Right  Expr
}

// MatrixExpr is "[a, b; c, d]"; "[]" has no rows
type MatrixExpr struct {
	Pos    Position
	EndPos Position
	Rows   [][]Expr
}

// CellExpr is "{a, b; c, d}"
type CellExpr struct {
	Pos    Position
	EndPos Position
	Rows   [][]Expr
}

// TildeExpr is "~" in an output list
type TildeExpr struct {
	Pos    Position
	EndPos Position
}

func (*Ident) isExpr()            {}
func (*NumberLit) isExpr()        {}
func (*StringLit) isExpr()        {}
func (*AccessCallExpr) isExpr()   {}
func (*CellAccessExpr) isExpr()   {}
func (*ColonExpr) isExpr()        {}
func (*EndExpr) isExpr()          {}
func (*RangeExpr) isExpr()        {}
func (*ShortCircuitExpr) isExpr() {}
func (*MatrixExpr) isExpr()       {}
func (*CellExpr) isExpr()         {}
func (*TildeExpr) isExpr()        {}

// IsEmptyMatrix reports whether e is the "[]" literal
func IsEmptyMatrix(e Expr) bool {
	m, ok := e.(*MatrixExpr)
	return ok && len(m.Rows) == 0
}
