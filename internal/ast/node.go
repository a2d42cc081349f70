package ast

type Node interface {
	NodePos() Position
	NodeEndPos() Position
	NodeType() NodeType
	String() string
}

func (f *File) NodePos() Position    { return f.Pos }
func (f *File) NodeEndPos() Position { return f.EndPos }
func (*File) NodeType() NodeType     { return FILE }

func (f *Function) NodePos() Position    { return f.Pos }
func (f *Function) NodeEndPos() Position { return f.EndPos }
func (*Function) NodeType() NodeType     { return FUNCTION }

func (p *Param) NodePos() Position    { return p.Pos }
func (p *Param) NodeEndPos() Position { return p.EndPos }
func (*Param) NodeType() NodeType     { return PARAM }

func (s *AssignStmt) NodePos() Position    { return s.Pos }
func (s *AssignStmt) NodeEndPos() Position { return s.EndPos }
func (*AssignStmt) NodeType() NodeType     { return ASSIGN_STMT }

func (s *ExprStmt) NodePos() Position    { return s.Pos }
func (s *ExprStmt) NodeEndPos() Position { return s.EndPos }
func (*ExprStmt) NodeType() NodeType     { return EXPR_STMT }

func (s *IfStmt) NodePos() Position    { return s.Pos }
func (s *IfStmt) NodeEndPos() Position { return s.EndPos }
func (*IfStmt) NodeType() NodeType     { return IF_STMT }

func (s *WhileStmt) NodePos() Position    { return s.Pos }
func (s *WhileStmt) NodeEndPos() Position { return s.EndPos }
func (*WhileStmt) NodeType() NodeType     { return WHILE_STMT }

func (s *ForStmt) NodePos() Position    { return s.Pos }
func (s *ForStmt) NodeEndPos() Position { return s.EndPos }
func (*ForStmt) NodeType() NodeType     { return FOR_STMT }

func (s *BreakStmt) NodePos() Position    { return s.Pos }
func (s *BreakStmt) NodeEndPos() Position { return s.EndPos }
func (*BreakStmt) NodeType() NodeType     { return BREAK_STMT }

func (s *ContinueStmt) NodePos() Position    { return s.Pos }
func (s *ContinueStmt) NodeEndPos() Position { return s.EndPos }
func (*ContinueStmt) NodeType() NodeType     { return CONTINUE_STMT }

func (s *GlobalStmt) NodePos() Position    { return s.Pos }
func (s *GlobalStmt) NodeEndPos() Position { return s.EndPos }
func (*GlobalStmt) NodeType() NodeType     { return GLOBAL_STMT }

func (s *CommentStmt) NodePos() Position    { return s.Pos }
func (s *CommentStmt) NodeEndPos() Position { return s.EndPos }
func (*CommentStmt) NodeType() NodeType     { return COMMENT_STMT }

func (i *Ident) NodePos() Position    { return i.Pos }
func (i *Ident) NodeEndPos() Position { return i.EndPos }
func (*Ident) NodeType() NodeType     { return IDENT }

func (n *NumberLit) NodePos() Position    { return n.Pos }
func (n *NumberLit) NodeEndPos() Position { return n.EndPos }
func (*NumberLit) NodeType() NodeType     { return NUMBER_LIT }

func (s *StringLit) NodePos() Position    { return s.Pos }
func (s *StringLit) NodeEndPos() Position { return s.EndPos }
func (*StringLit) NodeType() NodeType     { return STRING_LIT }

func (e *AccessCallExpr) NodePos() Position    { return e.Pos }
func (e *AccessCallExpr) NodeEndPos() Position { return e.EndPos }
func (*AccessCallExpr) NodeType() NodeType     { return ACCESS_CALL_EXPR }

func (e *CellAccessExpr) NodePos() Position    { return e.Pos }
func (e *CellAccessExpr) NodeEndPos() Position { return e.EndPos }
func (*CellAccessExpr) NodeType() NodeType     { return CELL_ACCESS_EXPR }

func (e *ColonExpr) NodePos() Position    { return e.Pos }
func (e *ColonExpr) NodeEndPos() Position { return e.EndPos }
func (*ColonExpr) NodeType() NodeType     { return COLON_EXPR }

func (e *EndExpr) NodePos() Position    { return e.Pos }
func (e *EndExpr) NodeEndPos() Position { return e.EndPos }
func (*EndExpr) NodeType() NodeType     { return END_EXPR }

func (e *RangeExpr) NodePos() Position    { return e.Pos }
func (e *RangeExpr) NodeEndPos() Position { return e.EndPos }
func (*RangeExpr) NodeType() NodeType     { return RANGE_EXPR }

func (e *ShortCircuitExpr) NodePos() Position    { return e.Pos }
func (e *ShortCircuitExpr) NodeEndPos() Position { return e.EndPos }
func (*ShortCircuitExpr) NodeType() NodeType     { return SHORT_CIRCUIT_EXPR }

func (e *MatrixExpr) NodePos() Position    { return e.Pos }
func (e *MatrixExpr) NodeEndPos() Position { return e.EndPos }
func (*MatrixExpr) NodeType() NodeType     { return MATRIX_EXPR }

func (e *CellExpr) NodePos() Position    { return e.Pos }
func (e *CellExpr) NodeEndPos() Position { return e.EndPos }
func (*CellExpr) NodeType() NodeType     { return CELL_EXPR }

func (e *TildeExpr) NodePos() Position    { return e.Pos }
func (e *TildeExpr) NodeEndPos() Position { return e.EndPos }
func (*TildeExpr) NodeType() NodeType     { return TILDE_EXPR }
