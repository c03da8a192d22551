package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The commands share package-level flag state, so these tests do not run in
// parallel.

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConvertToStdout(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(src, []byte("name,age\nAna,30\n"), 0o600))

	out, err := run(t, "convert", "--format", "jsonl", "--out", "", "--jobs", "1", src)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ana","age":"30"}`+"\n", out)
}

func TestConvertToDirectory(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(a, []byte("one\n\ntwo\n"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("k\nv\n"), 0o600))
	outDir := filepath.Join(dir, "out")

	_, err := run(t, "convert", "--format", "csv", "--out", outDir, "--jobs", "2", a, b)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(outDir, "a.txt.csv"))
	require.NoError(t, err)
	assert.Equal(t, "text\n\"one\"\n\"two\"", string(got))

	got, err = os.ReadFile(filepath.Join(outDir, "b.csv.csv"))
	require.NoError(t, err)
	assert.Equal(t, "k\n\"v\"", string(got))
}

func TestConvertRejectsClashingOutputs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a", "x.csv")
	b := filepath.Join(dir, "b", "x.csv")
	for _, p := range []string{a, b} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("k\nv\n"), 0o600))
	}
	outDir := filepath.Join(dir, "out")

	_, err := run(t, "convert", "--format", "json", "--out", outDir, "--jobs", "2", a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both write")
	assert.NoFileExists(t, filepath.Join(outDir, "x.csv.json"))
}

func TestConvertReportsFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "image.png")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o600))

	out, err := run(t, "convert", "--format", "jsonl", "--out", "", "--jobs", "1", bad)
	require.Error(t, err)
	assert.Contains(t, out, "unsupported_format")
}

func TestConvertRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "convert", "--format", "xml", "--out", "", "--jobs", "1", "x.txt")
	require.Error(t, err)
}

func TestDetectCommand(t *testing.T) {
	out, err := run(t, "detect", "a.XLSX", "b.bin")
	require.NoError(t, err)
	assert.Contains(t, out, "a.XLSX\tspreadsheet\n")
	assert.Contains(t, out, "b.bin\tunsupported\n")
}

func TestFormatsCommand(t *testing.T) {
	out, err := run(t, "formats")
	require.NoError(t, err)
	assert.Contains(t, out, ".xlsx")
	assert.Contains(t, out, "markdown")
	assert.Contains(t, out, "text/csv")
}
