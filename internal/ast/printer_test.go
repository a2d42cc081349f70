package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ident(name string) *Ident { return &Ident{Value: name} }
func num(value string) *NumberLit { return &NumberLit{Value: value} }

func TestFunctionString(t *testing.T) {
	fn := &Function{
		Name:    ident("f"),
		Inputs:  []*Param{{Name: "x"}, {Ignored: true}},
		Outputs: []*Ident{ident("y"), ident("n")},
		Body: []Stmt{
			&AssignStmt{Targets: []Expr{ident("y")}, Value: &AccessCallExpr{Name: ident("plus"), Args: []Expr{ident("x"), num("1")}}},
			&IfStmt{
				Cond: &ShortCircuitExpr{Op: "&&", Left: ident("a"), Right: ident("b")},
				Then: []Stmt{&BreakStmt{}},
				Else: []Stmt{&AssignStmt{Targets: []Expr{ident("n")}, Value: &MatrixExpr{}, Display: true}},
			},
		},
	}

	expected := `function [y, n] = f(x, ~)
  y = plus(x, 1);
  if (a && b)
    break;
  else
    n = []
  end
end`
	assert.Equal(t, expected, fn.String())
}

func TestExprStrings(t *testing.T) {
	tests := []struct {
		expr     Expr
		expected string
	}{
		{&RangeExpr{Start: num("1"), End: &EndExpr{}}, "1:end"},
		{&RangeExpr{Start: num("1"), Step: num("2"), End: num("9")}, "1:2:9"},
		{&CellAccessExpr{Name: ident("c"), Args: []Expr{&ColonExpr{}}}, "c{:}"},
		{&CellExpr{Rows: [][]Expr{{num("1"), num("2")}, {num("3"), num("4")}}}, "{1, 2; 3, 4}"},
		{&StringLit{Value: "it's"}, "'it''s'"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.expr.String())
	}
}

func TestIsEmptyMatrix(t *testing.T) {
	assert.True(t, IsEmptyMatrix(&MatrixExpr{}))
	assert.False(t, IsEmptyMatrix(&MatrixExpr{Rows: [][]Expr{{num("1")}}}))
	assert.False(t, IsEmptyMatrix(ident("x")))
}

func TestInputNames(t *testing.T) {
	fn := &Function{Inputs: []*Param{{Name: "a"}, {Ignored: true}, {Name: "c"}}, Outputs: []*Ident{ident("y")}}

	assert.Equal(t, []string{"a", "", "c"}, fn.InputNames())
	assert.Equal(t, []string{"y"}, fn.OutputNames())
	assert.Equal(t, "IF_STMT", IF_STMT.String())
}
