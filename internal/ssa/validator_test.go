package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ifElseBody builds the shape produced for `if c, x = 1, else, x = 2, end`
func ifElseBody() *FunctionBody {
	body := NewFunctionBody("f", 1, []string{"c"}, nil)
	entry, yes, no, join := NewBlock(), NewBlock(), NewBlock(), NewBlock()
	body.AddBlock(entry)
	body.AddBlock(yes)
	body.AddBlock(no)
	body.AddBlock(join)

	entry.Add(&ArgumentInstruction{Output: "c$1", Index: 0})
	entry.Add(&BranchInstruction{Condition: "c$1", TrueBlock: 1, FalseBlock: 2, EndBlock: 3})
	yes.Add(&AssignmentInstruction{Output: "x$1", Kind: FromNumber, Source: "1"})
	no.Add(&AssignmentInstruction{Output: "x$2", Kind: FromNumber, Source: "2"})
	join.Add(&PhiInstruction{Output: "x$3", Variables: []string{"x$1", "x$2"}, SourceBlocks: []int{1, 2}})
	return body
}

func TestValidatorAcceptsWellFormedBody(t *testing.T) {
	assert.NoError(t, Validate(ifElseBody()))
}

func TestValidatorViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(body *FunctionBody)
		message string
	}{
		{
			name: "duplicate definition",
			mutate: func(body *FunctionBody) {
				body.Block(2).Add(&AssignmentInstruction{Output: "x$1", Kind: FromNumber, Source: "3"})
			},
			message: "declared multiple times",
		},
		{
			name: "phi arity",
			mutate: func(body *FunctionBody) {
				body.Block(3).Instructions[0].(*PhiInstruction).SourceBlocks = []int{1}
			},
			message: "source blocks",
		},
		{
			name: "duplicate phi sources",
			mutate: func(body *FunctionBody) {
				body.Block(3).Instructions[0].(*PhiInstruction).SourceBlocks = []int{1, 1}
			},
			message: "duplicated input blocks",
		},
		{
			name: "ending instruction in the middle",
			mutate: func(body *FunctionBody) {
				body.Block(0).Add(&LineInstruction{Line: 3})
			},
			message: "middle of block",
		},
		{
			name: "missing block",
			mutate: func(body *FunctionBody) {
				body.Block(2).Add(&WhileInstruction{LoopBlock: 9, EndBlock: 3})
			},
			message: "missing block #9",
		},
		{
			name: "undeclared use",
			mutate: func(body *FunctionBody) {
				body.Block(3).Add(&ValidateBooleanInstruction{Input: "nowhere$1"})
			},
			message: "never declared",
		},
		{
			name: "phi after other instructions",
			mutate: func(body *FunctionBody) {
				body.Block(3).Prepend(&CommentInstruction{Text: "oops"})
			},
			message: "not at the beginning",
		},
		{
			name: "entry block use before def",
			mutate: func(body *FunctionBody) {
				body.Block(0).Prepend(&ValidateBooleanInstruction{Input: "c$1"})
			},
			message: "before use",
		},
		{
			name: "phi after branch names a foreign block",
			mutate: func(body *FunctionBody) {
				body.Block(3).Instructions[0].(*PhiInstruction).SourceBlocks = []int{0, 2}
			},
			message: "invalid phi node after branch",
		},
		{
			name: "use before def inside a block",
			mutate: func(body *FunctionBody) {
				body.Block(3).Add(&ValidateBooleanInstruction{Input: "y$1"})
				body.Block(3).Add(&AssignmentInstruction{Output: "y$1", Kind: FromNumber, Source: "1"})
			},
			message: "before being declared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := ifElseBody()
			tt.mutate(body)

			err := Validate(body)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidatorLoopHeaderMustReferenceOuterBlock(t *testing.T) {
	body := NewFunctionBody("f", 1, nil, nil)
	entry, header, after := NewBlock(), NewBlock(), NewBlock()
	body.AddBlock(entry)
	body.AddBlock(header)
	body.AddBlock(after)

	entry.Add(&AssignmentInstruction{Output: "s$1", Kind: FromNumber, Source: "0"})
	entry.Add(&AssignmentInstruction{Output: "$start$1", Kind: FromNumber, Source: "1"})
	entry.Add(&ForInstruction{Start: "$start$1", Interval: "$start$1", End: "$start$1", LoopBlock: 1, EndBlock: 2})
	phi := &PhiInstruction{Output: "s$2", Variables: []string{"s$1", "s$3"}, SourceBlocks: []int{0, 1}}
	header.Add(phi)
	header.Add(&IterInstruction{Output: "i$1"})
	header.Add(&UntypedFunctionCallInstruction{Function: "plus", Results: []string{"s$3"}, Args: []string{"s$2", "i$1"}})

	require.NoError(t, Validate(body))

	phi.SourceBlocks = []int{2, 1}
	err := Validate(body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not reference outer block #0")
}

func TestBlockEndFollowsNestedStructures(t *testing.T) {
	body := ifElseBody()
	// Nest a loop in the false branch: its end is the loop's after block
	body.AddBlock(NewBlock())
	body.AddBlock(NewBlock())
	body.Block(2).Add(&WhileInstruction{LoopBlock: 4, EndBlock: 5})

	assert.Equal(t, 1, BlockEnd(body, 1))
	assert.Equal(t, 5, BlockEnd(body, 2))
	assert.Equal(t, 3, BlockEnd(body, 0))
}
