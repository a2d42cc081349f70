package ast

import (
	"fmt"
	"strings"
)

func (f *File) String() string {
	var b strings.Builder

	for _, stmt := range f.Script {
		b.WriteString(stmt.String())
		b.WriteString("\n")
	}
	for i, fn := range f.Functions {
		if i > 0 || len(f.Script) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fn.String())
		b.WriteString("\n")
	}

	return b.String()
}

func (f *Function) String() string {
	var b strings.Builder

	b.WriteString("function ")
	switch len(f.Outputs) {
	case 0:
	case 1:
		b.WriteString(f.Outputs[0].Value + " = ")
	default:
		outputs := make([]string, len(f.Outputs))
		for i, o := range f.Outputs {
			outputs[i] = o.Value
		}
		b.WriteString("[" + strings.Join(outputs, ", ") + "] = ")
	}
	b.WriteString(f.Name.Value)

	inputs := make([]string, len(f.Inputs))
	for i, p := range f.Inputs {
		inputs[i] = p.String()
	}
	b.WriteString("(" + strings.Join(inputs, ", ") + ")\n")
	writeBody(&b, f.Body)
	b.WriteString("end")

	return b.String()
}

func (p *Param) String() string {
	if p.Ignored {
		return "~"
	}
	return p.Name
}

func writeBody(b *strings.Builder, body []Stmt) {
	for _, stmt := range body {
		b.WriteString("  " + strings.ReplaceAll(stmt.String(), "\n", "\n  ") + "\n")
	}
}

func terminator(display bool) string {
	if display {
		return ""
	}
	return ";"
}

func (s *AssignStmt) String() string {
	var lhs string
	if len(s.Targets) == 1 {
		lhs = s.Targets[0].String()
	} else {
		targets := make([]string, len(s.Targets))
		for i, t := range s.Targets {
			targets[i] = t.String()
		}
		lhs = "[" + strings.Join(targets, ", ") + "]"
	}
	return fmt.Sprintf("%s = %s%s", lhs, s.Value.String(), terminator(s.Display))
}

func (s *ExprStmt) String() string {
	return s.X.String() + terminator(s.Display)
}

func (s *IfStmt) String() string {
	var b strings.Builder

	b.WriteString("if " + s.Cond.String() + "\n")
	writeBody(&b, s.Then)
	if len(s.Else) > 0 {
		b.WriteString("else\n")
		writeBody(&b, s.Else)
	}
	b.WriteString("end")

	return b.String()
}

func (s *WhileStmt) String() string {
	var b strings.Builder

	b.WriteString("while " + s.Cond.String() + "\n")
	writeBody(&b, s.Body)
	b.WriteString("end")

	return b.String()
}

func (s *ForStmt) String() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("for %s = %s\n", s.Var.Value, s.Range.String()))
	writeBody(&b, s.Body)
	b.WriteString("end")

	return b.String()
}

func (s *BreakStmt) String() string    { return "break;" }
func (s *ContinueStmt) String() string { return "continue;" }

func (s *GlobalStmt) String() string {
	names := make([]string, len(s.Names))
	for i, n := range s.Names {
		names[i] = n.Value
	}
	return "global " + strings.Join(names, " ")
}

func (s *CommentStmt) String() string { return "%" + s.Text }

func (i *Ident) String() string     { return i.Value }
func (n *NumberLit) String() string { return n.Value }

func (s *StringLit) String() string {
	return "'" + strings.ReplaceAll(s.Value, "'", "''") + "'"
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func (e *AccessCallExpr) String() string {
	return fmt.Sprintf("%s(%s)", e.Name.Value, joinExprs(e.Args))
}

func (e *CellAccessExpr) String() string {
	return fmt.Sprintf("%s{%s}", e.Name.Value, joinExprs(e.Args))
}

func (e *ColonExpr) String() string { return ":" }
func (e *EndExpr) String() string   { return "end" }

func (e *RangeExpr) String() string {
	if e.Step == nil {
		return fmt.Sprintf("%s:%s", e.Start, e.End)
	}
	return fmt.Sprintf("%s:%s:%s", e.Start, e.Step, e.End)
}

func (e *ShortCircuitExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

func joinRows(rows [][]Expr) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = joinExprs(row)
	}
	return strings.Join(parts, "; ")
}

func (e *MatrixExpr) String() string { return "[" + joinRows(e.Rows) + "]" }
func (e *CellExpr) String() string   { return "{" + joinRows(e.Rows) + "}" }
func (e *TildeExpr) String() string  { return "~" }
