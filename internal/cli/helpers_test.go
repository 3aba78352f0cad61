package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/harq/internal/config"
	"github.com/roach88/harq/internal/filter"
	"github.com/roach88/harq/internal/har"
)

// samplePath is absolute so tests can change directory.
var samplePath = mustAbs(filepath.Join("..", "har", "testdata", "sample.har"))

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}

type result struct {
	stdout string
	stderr string
	err    error
}

// isolate moves the test into an empty directory with no config file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(config.EnvVar, "")
	return dir
}

// runCLI executes the root command with args and no stdin.
func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

func runCLIWithInput(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func readSample(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(samplePath)
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// sampleIndexed returns n placeholder selections numbered from 0.
func sampleIndexed(n int) []filter.Indexed {
	out := make([]filter.Indexed, n)
	for i := range out {
		out[i] = filter.Indexed{Index: i, Entry: &har.Entry{}}
	}
	return out
}
