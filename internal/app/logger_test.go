package app

import (
	"bufio"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns the
// first line written.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	require.NoError(t, w.Close())

	line, err := bufio.NewReader(r).ReadString('\n')
	require.NoError(t, err)
	return line
}

func TestNewLoggerCarriesServiceAttr(t *testing.T) {
	line := captureStdout(t, func() {
		NewLogger(&Config{LogFormat: "json"}, "api").Info("ready")
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, "ready", entry["msg"])
}

func TestNewLoggerNilConfigDefaultsToText(t *testing.T) {
	line := captureStdout(t, func() {
		NewLogger(nil, "worker").Info("ready")
	})
	assert.Contains(t, line, "service=worker")
	assert.NotContains(t, line, `"msg"`)
}
