package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlssa/internal/builder"
	"mlssa/internal/config"
	"mlssa/internal/errors"
	"mlssa/internal/parser"
	"mlssa/internal/ssa"
)

func buildWithDirectives(t *testing.T, source string) (*ssa.FunctionBody, *errors.Collector, error) {
	t.Helper()

	file, err := parser.ParseSource("test.m", source)
	require.NoError(t, err)
	require.Len(t, file.Functions, 1)

	collector := errors.NewCollector("test.m")
	body, err := builder.BuildFunction(file.Functions[0], config.Default(), collector, NewParser(collector))
	return body, collector, err
}

func codes(c *errors.Collector) []string {
	var result []string
	for _, d := range c.Diagnostics() {
		result = append(result, d.Code)
	}
	return result
}

func TestSpecializeIsPrependedToEntryBlock(t *testing.T) {
	body, collector, err := buildWithDirectives(t, `function y = f(x, n)
y = x;
%!specialize n
end`)
	require.NoError(t, err)
	require.Empty(t, collector.Diagnostics())

	entry := body.Block(0).Instructions
	require.GreaterOrEqual(t, len(entry), 2)
	assert.IsType(t, &ssa.LineInstruction{}, entry[0])
	assert.Equal(t, "!specialize n", entry[1].String())
	assert.NoError(t, ssa.Validate(body))
}

func TestSpecializeInsideBranchIsRejected(t *testing.T) {
	_, collector, err := buildWithDirectives(t, `function y = f(x, n)
y = x;
if x
  %!specialize n
end
end`)
	require.NoError(t, err)
	require.Len(t, collector.Diagnostics(), 1)
	assert.Equal(t, errors.ErrorCorrectness, collector.Diagnostics()[0].Code)
	assert.Contains(t, collector.Diagnostics()[0].Message, "function header")
}

func TestSpecializeRequiresInput(t *testing.T) {
	_, collector, err := buildWithDirectives(t, `function y = f(x)
%!specialize y
y = x;
end`)
	require.NoError(t, err)
	assert.Equal(t, []string{errors.ErrorCorrectness}, codes(collector))
}

func TestByRef(t *testing.T) {
	body, collector, err := buildWithDirectives(t, `function [a, b] = f(a, b, c)
%!by_ref b, a
end`)
	require.NoError(t, err)
	require.Empty(t, collector.Diagnostics())
	assert.True(t, body.IsByRef("a"))
	assert.True(t, body.IsByRef("b"))
	assert.False(t, body.IsByRef("c"))
}

func TestByRefErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   string
	}{
		{
			name:   "not an output",
			source: "function a = f(a, c)\n%!by_ref c\nend",
			code:   errors.ErrorParse,
		},
		{
			name:   "duplicate",
			source: "function a = f(a)\n%!by_ref a, a\nend",
			code:   errors.ErrorParse,
		},
		{
			name:   "bad list",
			source: "function a = f(a)\n%!by_ref a,, a\nend",
			code:   errors.ErrorUnrecognizedDirective,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, collector, err := buildWithDirectives(t, tt.source)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.code}, codes(collector))
		})
	}
}

func TestDecoratorsAreAppended(t *testing.T) {
	body, collector, err := buildWithDirectives(t, `function f()
%!assume_indices_in_range
%!assume_matrix_sizes_match
%!disable comment_elimination, validator, bad.name
end`)
	require.NoError(t, err)
	require.Empty(t, collector.Diagnostics())

	var rendered []string
	for _, inst := range body.Block(0).Instructions {
		if _, ok := inst.(*ssa.LineInstruction); ok {
			continue
		}
		rendered = append(rendered, inst.String())
	}
	assert.Equal(t, []string{
		"!assume_indices_in_range",
		"!assume_matrix_sizes_match",
		"!disable comment_elimination",
		"!disable validator",
	}, rendered)

	disabled := ssa.DisabledPasses(body)
	assert.True(t, disabled.Contains("comment_elimination", "validator"))
}

func TestFunctionProperties(t *testing.T) {
	body, collector, err := buildWithDirectives(t, `function f()
%!export my_f
%!dump_ssa
end`)
	require.NoError(t, err)
	require.Empty(t, collector.Diagnostics())

	export, ok := ssa.FindProperty[ssa.ExportProperty](body.Properties)
	require.True(t, ok)
	assert.Equal(t, "my_f", export.ABIName)
	assert.True(t, ssa.HasProperty[ssa.DumpSsaProperty](body.Properties))
}

func TestDuplicateFunctionProperties(t *testing.T) {
	_, collector, err := buildWithDirectives(t, `function f()
%!export
%!export
%!dump_ssa
%!dump_ssa
end`)
	require.NoError(t, err)
	assert.Equal(t, []string{errors.ErrorCorrectness, errors.ErrorCorrectness}, codes(collector))
}

func TestLoopProperties(t *testing.T) {
	body, collector, err := buildWithDirectives(t, `function y = f(n)
y = 0;
%!parallel
%!estimated_iterations 100
for i = 1:n
  y = y + i;
end
end`)
	require.NoError(t, err)
	require.Empty(t, collector.Diagnostics())

	var loops []*ssa.ForInstruction
	for _, inst := range ssa.InstructionsOf[*ssa.ForInstruction](body) {
		loops = append(loops, inst)
	}
	require.Len(t, loops, 1)
	assert.Equal(t, []ssa.LoopProperty{
		ssa.InfusibleProperty{},
		ssa.EstimatedIterationsProperty{Iterations: 100},
	}, loops[0].Properties)
}

func TestEstimatedIterationsRequiresInteger(t *testing.T) {
	_, collector, err := buildWithDirectives(t, `function f(n)
%!estimated_iterations many
for i = 1:n
end
end`)
	require.NoError(t, err)
	require.Len(t, collector.Diagnostics(), 1)
	assert.Contains(t, collector.Diagnostics()[0].Message, "integer iteration count")
}

func TestUnknownDirectiveSuggestsClosestName(t *testing.T) {
	_, collector, err := buildWithDirectives(t, `function f()
%!dump_sssa
end`)
	require.NoError(t, err)
	require.Len(t, collector.Diagnostics(), 1)

	d := collector.Diagnostics()[0]
	assert.Equal(t, errors.ErrorUnrecognizedDirective, d.Code)
	require.NotEmpty(t, d.Suggestions)
	assert.Contains(t, d.Suggestions[0].Message, "dump_ssa")
}

func TestBareDirectiveRejectsArguments(t *testing.T) {
	_, collector, err := buildWithDirectives(t, `function f()
%!dump_ssa now
end`)
	require.NoError(t, err)
	assert.Equal(t, []string{errors.ErrorUnrecognizedDirective}, codes(collector))
}

func TestExampleDirectivesFile(t *testing.T) {
	file, err := parser.ParseFile("../../examples/directives.m")
	require.NoError(t, err)

	collector := errors.NewCollector("directives.m")
	body, err := builder.BuildFunction(file.Functions[0], config.Default(), collector, NewParser(collector))
	require.NoError(t, err)
	require.Empty(t, collector.Diagnostics())
	require.NoError(t, ssa.Validate(body))

	assert.True(t, ssa.HasProperty[ssa.DumpSsaProperty](body.Properties))
	assert.True(t, ssa.DisabledPasses(body).Contains("comment_elimination"))
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("by_ref")
	require.True(t, ok)
	assert.Equal(t, "by_ref <name>[, <name>...]", d.Usage)

	_, ok = Lookup("nope")
	assert.False(t, ok)
	assert.Len(t, Names(), len(Definitions))
}
