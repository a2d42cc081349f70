package ssa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintFunctionBody(t *testing.T) {
	body := ifElseBody()
	body.AddProperty(ExportProperty{})
	body.Block(3).Add(&UntypedFunctionCallInstruction{Function: "use", Args: []string{"x$3"}})

	output := Print(body)

	expected := `Function f
[export]
block #0:
  c$1 = arg 0
  branch c$1, #1, #2, #3
block #1:
  x$1 = 1
block #2:
  x$2 = 2
block #3:
  x$3 = phi #1:x$1, #2:x$2
  [] = untyped_call use x$3
`
	assert.Equal(t, expected, output)
	assert.Equal(t, output, body.String())
}

func TestPrintByRefAndScript(t *testing.T) {
	body := NewFunctionBody("", 1, []string{"a"}, []string{"a"})
	require.NoError(t, body.AddByRef("a"))

	output := Print(body)
	assert.True(t, strings.HasPrefix(output, "Script\n"))
	assert.Contains(t, output, "By Ref: [a]")
}

func TestInstructionStrings(t *testing.T) {
	tests := []struct {
		inst     Instruction
		expected string
	}{
		{&AssignmentInstruction{Output: "x$1", Kind: FromUndefined}, "x$1 = !undefined"},
		{&AssignmentInstruction{Output: "x$2", Kind: FromVariable, Source: "y$1"}, "x$2 = y$1"},
		{&BuiltinVariableInstruction{Output: "pi$1", Name: "pi"}, "pi$1 = builtin pi"},
		{&CommentInstruction{Text: "note"}, "% note"},
		{&ReadGlobalInstruction{Output: "g$1", Global: "^g"}, "g$1 = ^g"},
		{&WriteGlobalInstruction{Global: "^g", Input: "g$2"}, "^g = g$2"},
		{&MatrixGetInstruction{Output: "y$1", Matrix: "a$1", Indices: []string{"i$1", "j$1"}}, "y$1 = get a$1(i$1, j$1)"},
		{&CellSetInstruction{Output: "c$2", Cell: "c$1", Indices: []string{"i$1"}, Value: "v$1"}, "c$2 = cell_set c$1{i$1}, v$1"},
		{&EndInstruction{Output: "$end$1", Matrix: "a$1", Index: 0, NumIndices: 1}, "$end$1 = end a$1, 0, 1"},
		{&ForInstruction{Start: "a", Interval: "b", End: "c", LoopBlock: 1, EndBlock: 2,
			Properties: []LoopProperty{InfusibleProperty{}}}, "for a, b, c, #1, #2 [infusible]"},
		{&StringInstruction{Output: "s$1", Value: "it's"}, `s$1 = "it's"`},
		{&DisableOptimizationDirectiveInstruction{Pass: "validator"}, "!disable validator"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.inst.String())
	}
}

func TestEffects(t *testing.T) {
	assert.Equal(t, ControlFlow, (&BranchInstruction{}).Effect())
	assert.Equal(t, HasSideEffect, (&WriteGlobalInstruction{}).Effect())
	assert.Equal(t, ValidationSideEffect, (&MatrixGetInstruction{}).Effect())
	assert.Equal(t, Decorator, (&CommentInstruction{}).Effect())
	assert.Equal(t, LineMarker, (&LineInstruction{}).Effect())
	assert.Equal(t, NoSideEffect, (&PhiInstruction{}).Effect())

	for _, inst := range []Instruction{&BranchInstruction{}, &WhileInstruction{}, &ForInstruction{},
		&BreakInstruction{}, &ContinueInstruction{}} {
		assert.True(t, inst.IsEnding(), inst.String())
	}
	assert.False(t, (&PhiInstruction{}).IsEnding())
	assert.Equal(t, "control-flow", ControlFlow.String())
}
