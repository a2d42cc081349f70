package grammar_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlssa/grammar"
)

func parse(t *testing.T, source string) *grammar.File {
	t.Helper()
	parser, err := grammar.Build()
	require.NoError(t, err)

	file, err := parser.ParseString("test.m", source)
	require.NoError(t, err)
	return file
}

func TestSumLoop(t *testing.T) {
	file, err := grammar.ParseFile(`../examples/sum_loop.m`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	require.Len(t, file.Items, 1)
	fn := file.Items[0].Function
	require.NotNil(t, fn)
	assert.Equal(t, "sum_loop", fn.Name.Value)
	require.Len(t, fn.Outputs, 1)
	assert.Equal(t, "s", fn.Outputs[0].Value)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "v", fn.Params[0].Name)
	assert.True(t, fn.End)

	require.Len(t, fn.Body, 3)
	assert.Equal(t, "% Sums the elements of v", *fn.Body[0].Comment)
	assert.NotNil(t, fn.Body[1].Assign)
	assert.True(t, fn.Body[1].Assign.Semi)

	loop := fn.Body[2].For
	require.NotNil(t, loop)
	assert.Equal(t, "i", loop.Var.Value)
	assert.Len(t, loop.Body, 1)
}

func TestMultipleFunctionsWithBlockComment(t *testing.T) {
	file, err := grammar.ParseFile(`../examples/control.m`)
	require.NoError(t, err)

	var names []string
	for _, item := range file.Items {
		require.NotNil(t, item.Function)
		names = append(names, item.Function.Name.Value)
	}
	assert.Equal(t, []string{"find_first", "trim_last", "make_cells"}, names)

	params := file.Items[2].Function.Params
	require.Len(t, params, 2)
	assert.Equal(t, "~", params[1].Name)
}

func TestFunctionWithoutEnd(t *testing.T) {
	file := parse(t, "function f()\nx = 1;\nfunction g()\ny = 2;\n")

	require.Len(t, file.Items, 2)
	assert.False(t, file.Items[0].Function.End)
	assert.Len(t, file.Items[0].Function.Body, 1)
	assert.Empty(t, file.Items[0].Function.Outputs)
}

func TestMultiTargetAssignment(t *testing.T) {
	file := parse(t, "[a, ~, c(2)] = size(x);\n")

	assign := file.Items[0].Statement.Assign
	require.NotNil(t, assign)
	require.Len(t, assign.Targets, 3)
	assert.Equal(t, "a", assign.Targets[0].Name)
	assert.True(t, assign.Targets[1].Tilde)
	assert.Equal(t, "c", assign.Targets[2].Name)
	require.NotNil(t, assign.Targets[2].Index)
	assert.False(t, assign.Targets[2].Index.Brace)
}

func TestExpressionStatementIsNotAssignment(t *testing.T) {
	file := parse(t, "a(1) == 2\ndisp(x);\n")

	require.Len(t, file.Items, 2)
	assert.Nil(t, file.Items[0].Statement.Assign)
	require.NotNil(t, file.Items[0].Statement.Expr)
	assert.False(t, file.Items[0].Statement.Expr.Semi)
	assert.True(t, file.Items[1].Statement.Expr.Semi)
}

func TestIfElseIfElse(t *testing.T) {
	file := parse(t, "if a\n x = 1;\nelseif b, x = 2;\nelse\n x = 3;\nend\n")

	stmt := file.Items[0].Statement.If
	require.NotNil(t, stmt)
	assert.Len(t, stmt.Then, 1)
	require.Len(t, stmt.ElseIfs, 1)
	assert.Len(t, stmt.ElseIfs[0].Body, 1)
	require.NotNil(t, stmt.Else)
	assert.Len(t, stmt.Else.Body, 1)
}

func TestColonAndEndArguments(t *testing.T) {
	file := parse(t, "y = x(end, :);\nz = x(2:end);\n")

	args := file.Items[0].Statement.Assign.Value.Left.Left.Left.Left.Left.Parts[0].Left.Left.Power.Base.Access.Index.Args
	require.Len(t, args, 2)
	assert.Nil(t, args[0].Expr.Left.Left.Left.Left.Left.Parts[0].Left.Left.Power.Base.Access)
	assert.True(t, args[0].Expr.Left.Left.Left.Left.Left.Parts[0].Left.Left.Power.Base.End)
	assert.True(t, args[1].Colon)

	rangeArgs := file.Items[1].Statement.Assign.Value.Left.Left.Left.Left.Left.Parts[0].Left.Left.Power.Base.Access.Index.Args
	require.Len(t, rangeArgs, 1)
	assert.Len(t, rangeArgs[0].Expr.Left.Left.Left.Left.Left.Parts, 2)
}

func TestMatrixAndCellLiterals(t *testing.T) {
	file := parse(t, "x = [];\ny = [1, 2; 3 4];\nc = {1, 'a''b'};\n")

	empty := file.Items[0].Statement.Assign.Value.Left.Left.Left.Left.Left.Parts[0].Left.Left.Power.Base.Matrix
	require.NotNil(t, empty)
	assert.Empty(t, empty.Rows)

	matrix := file.Items[1].Statement.Assign.Value.Left.Left.Left.Left.Left.Parts[0].Left.Left.Power.Base.Matrix
	require.Len(t, matrix.Rows, 2)
	assert.Len(t, matrix.Rows[1].Elems, 2)

	cell := file.Items[2].Statement.Assign.Value.Left.Left.Left.Left.Left.Parts[0].Left.Left.Power.Base.Cell
	require.Len(t, cell.Rows, 1)
	str := cell.Rows[0].Elems[1].Left.Left.Left.Left.Left.Parts[0].Left.Left.Power.Base.String
	assert.Equal(t, "'a''b'", *str)
}

func TestGlobalAndLoopKeywords(t *testing.T) {
	file := parse(t, "global a b\nwhile 1\n break\n continue\nend\n")

	assert.Len(t, file.Items[0].Statement.Global, 2)
	loop := file.Items[1].Statement.While
	require.NotNil(t, loop)
	require.Len(t, loop.Body, 2)
	assert.True(t, loop.Body[0].Break)
	assert.True(t, loop.Body[1].Continue)
}

func TestReportParseError(t *testing.T) {
	parser, err := grammar.Build()
	require.NoError(t, err)

	source := "x = (1 + ;\n"
	_, err = parser.ParseString("bad.m", source)
	require.Error(t, err)

	var out bytes.Buffer
	grammar.ReportParseError(&out, source, err)
	assert.Contains(t, out.String(), "Syntax error in bad.m at line 1")
	assert.Contains(t, out.String(), "x = (1 + ;")
}
