package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File is either a sequence of functions or a script
type File struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Items  []*Item `( Newline | ";" | "," | @@ )*`
}

type Item struct {
	Function  *Function  `  @@`
	Statement *Statement `| @@`
}

type Ident struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  string `@Ident`
}

type Function struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Outputs []*Ident     `"function" ( ( "[" ( @@ ( ","? @@ )* )? "]" | @@ ) "=" )?`
	Name    *Ident       `@@`
	Params  []*Param     `( "(" ( @@ ( "," @@ )* )? ")" )?`
	Body    []*Statement `( Newline | ";" | "," | @@ )*`
	End     bool         `@"end"?`
}

type Param struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string `@( "~" | Ident )`
}

type Statement struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Comment  *string   `  @Comment`
	If       *If       `| @@`
	While    *While    `| @@`
	For      *For      `| @@`
	Break    bool      `| @"break"`
	Continue bool      `| @"continue"`
	Global   []*Ident  `| "global" @@+`
	Assign   *Assign   `| @@`
	Expr     *ExprStmt `| @@`
}

type If struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Cond    *Expr        `"if" @@`
	Then    []*Statement `( Newline | ";" | "," | @@ )*`
	ElseIfs []*ElseIf    `@@*`
	Else    *Else        `@@? "end"`
}

type ElseIf struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr        `"elseif" @@`
	Body   []*Statement `( Newline | ";" | "," | @@ )*`
}

type Else struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Body   []*Statement `"else" ( Newline | ";" | "," | @@ )*`
}

type While struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr        `"while" @@`
	Body   []*Statement `( Newline | ";" | "," | @@ )* "end"`
}

type For struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Var    *Ident       `"for" @@ "="`
	Range  *Expr        `@@`
	Body   []*Statement `( Newline | ";" | "," | @@ )* "end"`
}

type Assign struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Targets []*Target `( "[" @@ ( ","? @@ )* "]" | @@ ) "="`
	Value   *Expr     `@@`
	Semi    bool      `@";"?`
}

// Target is an assignment destination: "~", "x", "a(i, j)" or "c{i}"
type Target struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Tilde  bool   `  @"~"`
	Name   string `| @Ident`
	Index  *Index `  @@?`
}

type ExprStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	X      *Expr `(?! "end" | "else" | "elseif" | "function" ) @@`
	Semi   bool  `@";"?`
}

// Expressions, lowest precedence first

type Expr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *AndExpr   `@@`
	Right  []*AndExpr `( "||" @@ )*`
}

type AndExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *OrExpr   `@@`
	Right  []*OrExpr `( "&&" @@ )*`
}

type OrExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *ElemAndExpr   `@@`
	Right  []*ElemAndExpr `( "|" @@ )*`
}

type ElemAndExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *CmpExpr   `@@`
	Right  []*CmpExpr `( "&" @@ )*`
}

type CmpExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *RangeExpr `@@`
	Ops    []*CmpOp   `@@*`
}

type CmpOp struct {
	Op    string     `@( "==" | "~=" | "<=" | ">=" | "<" | ">" )`
	Right *RangeExpr `@@`
}

type RangeExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Parts  []*AddExpr `@@ ( ":" @@ )*`
}

type AddExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *MulExpr `@@`
	Ops    []*AddOp `@@*`
}

type AddOp struct {
	Op    string   `@( "+" | "-" )`
	Right *MulExpr `@@`
}

type MulExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *UnaryExpr `@@`
	Ops    []*MulOp   `@@*`
}

type MulOp struct {
	Op    string     `@( "*" | "/" | "\\" | ".*" | "./" | ".\\" )`
	Right *UnaryExpr `@@`
}

type UnaryExpr struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Op      string     `( @( "-" | "+" | "~" | "!" )`
	Operand *UnaryExpr `  @@`
	Power   *PowerExpr `| @@ )`
}

type PowerExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Base   *Primary   `@@`
	Ops    []*PowerOp `@@*`
}

type PowerOp struct {
	Op       string   `@( "^" | ".^" )`
	Exponent *Primary `@@`
}

type Primary struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Number *string `  @Number`
	String *string `| @String`
	End    bool    `| @"end"`
	Access *Access `| @@`
	Matrix *Matrix `| @@`
	Cell   *Cell   `| @@`
	Paren  *Expr   `| "(" @@ ")"`
}

// Access is "name", "name(args)" or "name{args}"
type Access struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   *Ident `@@`
	Index  *Index `@@?`
}

type Index struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Brace  bool   `( "(" | @"{" )`
	Args   []*Arg `( @@ ( "," @@ )* )? ( ")" | "}" )`
}

// Arg is an index or call argument; a lone ":" selects everything
type Arg struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Colon  bool  `  @":" (?= "," | ")" | "}" )`
	Expr   *Expr `| @@`
}

type Matrix struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Rows   []*Row `"[" Newline* ( @@ ( ( ";" | Newline )+ @@ )* )? ( ";" | Newline )* "]"`
}

type Cell struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Rows   []*Row `"{" Newline* ( @@ ( ( ";" | Newline )+ @@ )* )? ( ";" | Newline )* "}"`
}

type Row struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Elems  []*Expr `@@ ( ","? @@ )*`
}
