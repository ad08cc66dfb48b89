package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useEcho points the command at the offline provider with a clean environment.
func useEcho(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MEDSUM_CONFIG", "MEDSUM_MODEL", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(key, "")
	}
	t.Setenv("MEDSUM_PROVIDER", "echo")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "error")
}

func writeRecord(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_SingleFile(t *testing.T) {
	useEcho(t)
	path := writeRecord(t, t.TempDir(), "visit.txt", "Patient has    seasonal allergies.")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{path}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "=== visit.txt ===\n\nPatient has seasonal allergies.\n", stdout.String())
}

func TestRun_WritesOutput(t *testing.T) {
	for _, flagName := range []string{"--output", "--output_path"} {
		t.Run(flagName, func(t *testing.T) {
			useEcho(t)
			dir := t.TempDir()
			writeRecord(t, dir, "a.txt", "First visit.")
			writeRecord(t, dir, "b.txt", "Second visit.")
			out := filepath.Join(t.TempDir(), "nested", "summary.txt")

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), []string{flagName, out, dir}, &stdout, &stderr)

			require.Equal(t, 0, code, stderr.String())
			written, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(stdout.String()), string(written))
			assert.Contains(t, string(written), "=== a.txt ===")
			assert.Contains(t, string(written), "=== b.txt ===")
		})
	}
}

func TestRun_EmptyDirectory(t *testing.T) {
	useEcho(t)
	out := filepath.Join(t.TempDir(), "summary.txt")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--output", out, t.TempDir()}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "nothing to summarize")
	assert.NoFileExists(t, out)
}

func TestRun_MissingPath(t *testing.T) {
	useEcho(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{filepath.Join(t.TempDir(), "absent")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "document not found")
}

func TestRun_ProviderFlagOverridesEnvironment(t *testing.T) {
	useEcho(t)
	t.Setenv("MEDSUM_PROVIDER", "openai")
	path := writeRecord(t, t.TempDir(), "visit.txt", "Text.")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--provider", "echo", path}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
}

func TestRun_InvalidConfiguration(t *testing.T) {
	useEcho(t)
	t.Setenv("MEDSUM_PROVIDER", "openai")
	path := writeRecord(t, t.TempDir(), "visit.txt", "Text.")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{path}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "OPENAI_API_KEY")
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{name: "no input", args: nil, wantCode: 2},
		{name: "two inputs", args: []string{"a", "b"}, wantCode: 2},
		{name: "unknown flag", args: []string{"--bogus", "a"}, wantCode: 2},
		{name: "help", args: []string{"-h"}, wantCode: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr.String(), "Usage: summarize")
		})
	}
}
