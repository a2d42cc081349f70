package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`suppress_printing = true
workers = 2
`))
	require.NoError(t, err)

	assert.True(t, cfg.SuppressPrinting)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "!", cfg.DirectiveMarker)
	assert.Contains(t, cfg.Builtins, "pi")
}

func TestParseKeepsExplicitValues(t *testing.T) {
	cfg, err := Parse([]byte(`directive_marker = "#"
builtins = ["true", "false"]
validate = true
`))
	require.NoError(t, err)

	assert.Equal(t, "#", cfg.DirectiveMarker)
	assert.Equal(t, []string{"true", "false"}, cfg.Builtins)
	assert.True(t, cfg.Validate)
	assert.True(t, cfg.BuiltinSet().Contains("false"))
	assert.False(t, cfg.BuiltinSet().Contains("pi"))
}

func TestParseRejectsInvalidInput(t *testing.T) {
	_, err := Parse([]byte(`workers = "many"`))
	assert.Error(t, err)

	_, err = Parse([]byte(`workers = -1`))
	assert.ErrorContains(t, err, "must not be negative")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mlssa.toml")
	require.NoError(t, os.WriteFile(path, []byte("verbosity = 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Verbosity)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "reading configuration")
}

func TestIsDirective(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.IsDirective("!dump_ssa"))
	assert.False(t, cfg.IsDirective(" plain comment"))
	assert.False(t, cfg.IsDirective(""))
}
