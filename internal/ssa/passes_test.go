package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPass struct {
	runs int
}

func (cp *countingPass) Name() string        { return "counting" }
func (cp *countingPass) Description() string { return "Counts its runs" }

func (cp *countingPass) Apply(body *FunctionBody) (bool, error) {
	cp.runs++
	return false, nil
}

func TestNewPipeline(t *testing.T) {
	pipeline := NewPipeline()

	names := []string{}
	for _, pass := range pipeline.Passes() {
		names = append(names, pass.Name())
	}
	assert.Equal(t, []string{"comment_elimination", "validator"}, names)
}

func TestPipelineRun(t *testing.T) {
	body := ifElseBody()
	body.Block(1).Prepend(&CommentInstruction{Text: "true branch"})

	require.NoError(t, NewPipeline().Run(body))
	assert.Len(t, body.Block(1).Instructions, 1)
}

func TestPipelineSkipsDisabledPasses(t *testing.T) {
	body := ifElseBody()
	body.Block(0).Prepend(&DisableOptimizationDirectiveInstruction{Pass: "counting"})

	pass := &countingPass{}
	pipeline := NewPipeline()
	pipeline.AddPass(pass)

	require.NoError(t, pipeline.Run(body))
	assert.Equal(t, 0, pass.runs)
	assert.True(t, DisabledPasses(body).Contains("counting"))
}

func TestPipelineReportsValidationErrors(t *testing.T) {
	body := ifElseBody()
	body.Block(2).Add(&AssignmentInstruction{Output: "x$1", Kind: FromNumber, Source: "2"})

	err := NewPipeline().Run(body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass validator")

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "f", validationErr.Function)
}
