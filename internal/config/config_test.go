package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"parsers": [
			{"type": "chase"},
			{"type": "mybank", "module_path": "parsers/mybank.py", "options": {"page_min": 2}}
		]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Parsers, 2)

	assert.Equal(t, "chase", cfg.Parsers[0].Type)
	assert.Empty(t, cfg.Parsers[0].ModulePath)

	assert.Equal(t, "mybank", cfg.Parsers[1].Type)
	assert.Equal(t, "parsers/mybank.py", cfg.Parsers[1].ModulePath)
	assert.Equal(t, float64(2), cfg.Parsers[1].Options["page_min"])
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
parsers:
  - type: mybank
    module_path: parsers/mybank
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Parsers, 1)
	assert.Equal(t, "mybank", cfg.Parsers[0].Type)
	assert.Equal(t, "parsers/mybank", cfg.Parsers[0].ModulePath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, "config.json", `{"parsers": [`)
	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_NoParsers(t *testing.T) {
	path := writeConfig(t, "config.json", `{"parsers": []}`)
	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no parsers")
}

func TestLoad_MissingType(t *testing.T) {
	path := writeConfig(t, "config.json", `{"parsers": [{"module_path": "x.py"}]}`)
	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing type")
}
