package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedora-ci/rpminspect-runner/internal/rpminspect"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newCommand()
	stderr := &bytes.Buffer{}
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(stderr)
	err := cmd.Execute()
	return stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRun(t *testing.T) {
	resultsDir := t.TempDir()
	input := writeFile(t, t.TempDir(), "result.json", `{"license": [{"result": "VERIFY", "message": "check license tag"}]}`)

	_, err := execute(t, resultsDir, input)
	require.NoError(t, err)

	status, err := os.ReadFile(filepath.Join(resultsDir, "license_status"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(status))

	status, err = os.ReadFile(filepath.Join(resultsDir, "skipped_status"))
	require.NoError(t, err)
	assert.Equal(t, "0", string(status))
}

func TestRunArgs(t *testing.T) {
	_, err := execute(t, t.TempDir())
	require.Error(t, err)
}

func TestRunMalformed(t *testing.T) {
	resultsDir := t.TempDir()
	input := writeFile(t, t.TempDir(), "result.json", `["license"]`)

	_, err := execute(t, resultsDir, input)
	require.ErrorIs(t, err, rpminspect.ErrMalformedReport)

	entries, err := os.ReadDir(resultsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunConfigAndFlagOverride(t *testing.T) {
	tmp := t.TempDir()
	input := writeFile(t, tmp, "result.json", `{"xml-files": [{"result": "OK", "message": "fine"}]}`)
	config := writeFile(t, tmp, "config.toml", "include_passing_findings = false\n\n[names]\n\"xml-files\" = \"xmlfiles\"\n")

	resultsDir := t.TempDir()
	_, err := execute(t, "--config", config, resultsDir, input)
	require.NoError(t, err)
	result, err := os.ReadFile(filepath.Join(resultsDir, "xmlfiles_result"))
	require.NoError(t, err)
	assert.Equal(t, "\nxmlfiles:\n---------\n\n", string(result))

	resultsDir = t.TempDir()
	_, err = execute(t, "--config", config, "--include-passing", resultsDir, input)
	require.NoError(t, err)
	result, err = os.ReadFile(filepath.Join(resultsDir, "xmlfiles_result"))
	require.NoError(t, err)
	assert.Contains(t, string(result), "1) fine")
}

func TestRunWarnsAboutInvalidUTF8(t *testing.T) {
	input := writeFile(t, t.TempDir(), "result.json", "{\"license\": [{\"message\": \"\xff\"}]}")

	stderr, err := execute(t, t.TempDir(), input)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Dropped 1 invalid UTF-8 bytes")
}
