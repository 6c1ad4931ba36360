package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdata = "../../debugger/session/testdata"

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"hackdbg"}, args...))
	return out.String(), err
}

func TestHeadlessSucceeds(t *testing.T) {
	out, err := runApp(t, "--headless", "--log-level", "error", "--rows", "3", filepath.Join(testdata, "countdown.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "== succeeded")
	assert.Contains(t, out, "session=9f86d081")
}

func TestHeadlessFailureIsAnError(t *testing.T) {
	_, err := runApp(t, "--headless", "--log-level", "error", "--max-init-ticks", "8",
		"--session", filepath.Join(testdata, "spinner.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap tick budget exhausted")
}

func TestHeadlessWritesOutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.txt")
	out, err := runApp(t, "--headless", "--log-level", "error", "--trace", "--out", path, filepath.Join(testdata, "raw.json"))
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "== bootstrapping")
	assert.Contains(t, string(data), "== succeeded")
}

func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad log level", []string{"--log-level", "loud", filepath.Join(testdata, "raw.json")}},
		{"missing session file", []string{"--headless", "--log-level", "error", "does-not-exist.yaml"}},
		{"bad tick budget", []string{"--headless", "--log-level", "error", "--max-ticks", "0", filepath.Join(testdata, "raw.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
