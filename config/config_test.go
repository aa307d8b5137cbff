package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Grammar)
	assert.Equal(t, "exact", cfg.Lexical)
	assert.Equal(t, "tree", cfg.Format)
	assert.Equal(t, 0, cfg.MaxChart)
}

func TestLoad_ProjectFileFoundUpward(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("lexical = \"fold\"\nmax_chart = 500\n"), 0o644))
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "fold", cfg.Lexical)
	assert.Equal(t, 500, cfg.MaxChart)
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("grammar = \"toy.mcfg\"\nformat = \"json\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "toy.mcfg", cfg.Grammar)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("start = \"S\"\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("MCFG_START", "NP")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "NP", cfg.Start)
}

func TestLoad_NegativeMaxChart(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MCFG_MAX_CHART", "-1")

	_, err := Load("")
	assert.Error(t, err)
}

func TestBindFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MCFG_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "tree", "")
	flags.Int("max-chart", 0, "")
	flags.String("lexical", "exact", "")
	require.NoError(t, flags.Parse([]string{"--format", "bracket", "--max-chart", "10"}))

	v, err := New("")
	require.NoError(t, err)
	require.NoError(t, BindFlags(v, flags))

	cfg, err := Unmarshal(v)
	require.NoError(t, err)
	assert.Equal(t, "bracket", cfg.Format)
	assert.Equal(t, 10, cfg.MaxChart)
	assert.Equal(t, "exact", cfg.Lexical)
}
