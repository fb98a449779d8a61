package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[validate]
exclude = ["**/node_modules/**"]
max_depth = 4
jobs = 2

[overrides]
ignore_empty_name = true
mode = "strict"

[targets]
firefox = ">= 10.0, < 31.0"

[suppress]
expressions = ['severity == "notice"']

[report]
format = "json"
metrics_file = "out.prom"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, DefaultInclude, cfg.Validate.Include)
	assert.Equal(t, []string{"**/node_modules/**"}, cfg.Validate.Exclude)
	assert.Equal(t, 4, cfg.Validate.MaxDepth)
	assert.Equal(t, 2, cfg.Validate.Jobs)
	assert.Equal(t, map[string]string{"ignore_empty_name": "true", "mode": "strict"}, cfg.Overrides)
	assert.Equal(t, []string{"ignore_empty_name", "mode"}, cfg.OverrideKeys())
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Len(t, cfg.Suppress.Expressions, 1)

	assert.True(t, cfg.Defined("validate", "jobs"))
	assert.False(t, cfg.Defined("validate", "max_diagnostics"))

	ts, err := cfg.TargetSet()
	require.NoError(t, err)
	assert.False(t, ts.Empty())
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, t.TempDir(), "[report]\nmetrics_file = \"m.prom\"\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Validate.MaxDepth)
	assert.Equal(t, "pretty", cfg.Report.Format)
	assert.Equal(t, "m.prom", cfg.Report.MetricsFile)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"syntax":         "[validate\n",
		"unknown key":    "[validate]\nthreads = 3\n",
		"bad glob":       "[validate]\ninclude = [\"[\"]\n",
		"bad format":     "[report]\nformat = \"xml\"\n",
		"unknown app":    "[targets]\nnetscape = \"*\"\n",
		"bad constraint": "[targets]\nfirefox = \">= banana\"\n",
		"negative jobs":  "[validate]\njobs = -1\n",
	}
	for name, body := range cases {
		_, err := Load(writeConfig(t, t.TempDir(), body))
		assert.Error(t, err, name)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[validate]\nmax_depth = 3\n")
	nested := filepath.Join(root, "chrome", "content")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	file := filepath.Join(nested, "main.js")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	cfg, err := Discover(file)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Validate.MaxDepth)
	assert.Equal(t, filepath.Join(root, FileName), cfg.Path)
}

func TestDiscoverWithoutFile(t *testing.T) {
	path, ok, err := Find(t.TempDir())
	require.NoError(t, err)
	if ok {
		t.Skipf("an %s above the temp dir (%s) shadows this test", FileName, path)
	}
	cfg, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.False(t, cfg.Defined("validate"))
	assert.Equal(t, Default().Validate, cfg.Validate)
}
