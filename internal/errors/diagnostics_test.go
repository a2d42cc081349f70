package errors

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlssa/internal/ast"
)

func TestCollectorEmitError(t *testing.T) {
	c := NewCollector("f.m")
	pos := ast.Position{Line: 4, Column: 3}

	err := c.EmitError(pos, CorrectnessError, "loop property must precede a loop")
	require.Error(t, err)
	assert.Equal(t, "f.m:4:3: error[E0101]: loop property must precede a loop", err.Error())
	assert.True(t, c.HasErrors())

	d, ok := AsDiagnostic(pkgerrors.Wrap(err, "building f"))
	require.True(t, ok)
	assert.Equal(t, CorrectnessError, d.Category)
}

func TestCollectorEmitMessageIsAdvisory(t *testing.T) {
	c := NewCollector("f.m")

	c.EmitMessage(ast.Position{Line: 1}, SuspiciousCase, "could be simpler")
	assert.False(t, c.HasErrors())

	require.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, Warning, c.Diagnostics()[0].Level)
	assert.Equal(t, WarningSuspicious, c.Diagnostics()[0].Code)

	assert.NoError(t, c.Report(SimplifiableDeletion("a", ast.Position{Line: 2})))
}

func TestCollectorMergeAndFormat(t *testing.T) {
	source := "x = 1;\nbreak;\n"
	first, second := NewCollector("s.m"), NewCollector("s.m")
	second.Report(OutsideLoop("break", ast.Position{Line: 2, Column: 1}))

	first.Merge(second)
	require.Len(t, first.Diagnostics(), 1)
	assert.Contains(t, first.Format(source), "'break' used outside of a loop")
}

func TestCategory(t *testing.T) {
	tests := []struct {
		category Category
		code     string
		fatal    bool
	}{
		{ParseError, ErrorParse, false},
		{CorrectnessError, ErrorCorrectness, false},
		{NotYetImplementedError, ErrorNotYetImplemented, true},
		{NotSupportedError, ErrorNotSupported, true},
		{UnrecognizedDirectiveError, ErrorUnrecognizedDirective, false},
		{SuspiciousCase, WarningSuspicious, false},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.category.Code())
			assert.Equal(t, tt.fatal, tt.category.Fatal())
			assert.Equal(t, tt.category, CategoryOf(tt.code))
		})
	}
}
