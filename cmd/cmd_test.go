package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lawText = `Статья 1. Предмет
Настоящий закон регулирует отношения.
Статья 2. Сфера действия
Положения статьи 1 применяются ко всем.
`

const lawBundle = `id: fz-1
title: Федеральный закон о примере
signed: "01.02.2003"
content_file: fz-1.txt
editions:
  - id: "2020-01-01"
    valid_from: "2020-01-01"
    change_reason: Первая редакция
    snapshot: |
      Статья 1. Предмет
      Старый текст.
  - id: "2021-03-01"
    valid_from: "01.03.2021"
    change_reason: Изменения
  - id: broken
    valid_from: "вчера"
`

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	flagConfig, flagLogLevel, flagPretty, flagMetricsFile = "", "", false, ""
	flagHTML, flagMarkdown, flagJSON = false, false, false
	flagFormat, flagID, flagTitle, flagSigned, flagEdition, flagOutputDir = "", "", "", "", "", ""
	flagWorkers = 0

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml")))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCanonicalizeText(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "law.txt", lawText)
	out := filepath.Join(dir, "out")

	stdout, _, err := execute(t, "canonicalize", in, "--title", "Закон", "--output_dir", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Written: "+filepath.Join(out, "law.html"))

	data, err := os.ReadFile(filepath.Join(out, "law.html"))
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `<div class="law-article" id="article-1"`)
	assert.Contains(t, body, `<div class="law-article" id="article-2"`)
	assert.Contains(t, body, `href="#article-1"`)
}

func TestCanonicalizeBundleJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fz-1.txt", lawText)
	bundle := writeFile(t, dir, "fz-1.yaml", lawBundle)
	out := filepath.Join(dir, "out")

	_, _, err := execute(t, "canonicalize", bundle, "--json", "--output_dir", out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "fz-1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"skipped_editions": 1`)
	assert.Contains(t, string(data), `"articles": 2`)
}

func TestCanonicalizeEdition(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fz-1.txt", lawText)
	bundle := writeFile(t, dir, "fz-1.yaml", lawBundle)
	out := filepath.Join(dir, "out")

	_, _, err := execute(t, "canonicalize", bundle, "--edition", "2020-01-01", "--output_dir", out)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "fz-1", "2020-01-01.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Старый текст.")
	assert.Contains(t, string(data), "01.01.2020")

	_, _, err = execute(t, "canonicalize", bundle, "--edition", "2021-03-01", "--output_dir", out)
	assert.ErrorContains(t, err, "no snapshot")
}

func TestCanonicalizeFlagErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "law.txt", lawText)

	_, _, err := execute(t, "canonicalize", in, "--json", "--markdown")
	assert.ErrorContains(t, err, "only one output format")

	_, _, err = execute(t, "canonicalize", in, "--format", "pdf")
	assert.ErrorContains(t, err, "unknown input format")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fz-1.txt", lawText)
	writeFile(t, dir, "fz-1.yaml", lawBundle)
	writeFile(t, dir, "other.txt", lawText)
	out := filepath.Join(t.TempDir(), "out")

	stdout, _, err := execute(t, "batch", dir, "--workers", "2", "--output_dir", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 2 documents to process")

	assert.FileExists(t, filepath.Join(out, "fz-1.html"))
	assert.FileExists(t, filepath.Join(out, "other.html"))
	assert.NoFileExists(t, filepath.Join(out, "fz-1.txt.html"))
}

func TestEditions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fz-1.txt", lawText)
	bundle := writeFile(t, dir, "fz-1.yaml", lawBundle)

	stdout, stderr, err := execute(t, "editions", bundle)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "*"))
	assert.Contains(t, lines[0], "01.03.2021")
	assert.Contains(t, lines[1], "01.01.2020")
	assert.Contains(t, stderr, "1 edition(s) skipped")
}

func TestMetricsFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "law.txt", lawText)
	metricsFile := filepath.Join(dir, "lawpipe.prom")

	_, _, err := execute(t, "canonicalize", in, "--output_dir", dir, "--metrics-file", metricsFile)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lawpipe_documents_total")
}
