package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARNING"))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
	assert.Equal(t, "WARN", WARN.String())
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: WARN, Writer: &buf})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", F("id", 3))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown | id=3")
	assert.Contains(t, out, "logger_test.go")
}

func TestWithFieldsKeepsParentUntouched(t *testing.T) {
	var buf bytes.Buffer
	parent, err := New(Config{Level: DEBUG, Writer: &buf})
	require.NoError(t, err)

	child := parent.WithFields(F("run", "abc"))
	child.Debug("from child")
	parent.Debug("from parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "run=abc")
	assert.NotContains(t, lines[1], "run=abc")
}

func TestGlobalFunctionsWithoutInit(t *testing.T) {
	SetDefault(nil)
	assert.NotPanics(t, func() {
		Info("nobody listening")
		_ = Close()
	})
	assert.Nil(t, WithFields(F("a", 1)))
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ptask.log")
	require.NoError(t, Init(Config{Level: INFO, FilePath: path, MaxSize: 1 << 20}, F("run", "r1")))
	t.Cleanup(func() {
		_ = Close()
		SetDefault(nil)
	})

	Info("hello", F("k", "v"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello | run=r1 k=v")
	assert.Equal(t, path, GetConfig().FilePath)
}

func TestRotationBySize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ptask.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0644))

	l, err := New(Config{Level: INFO, FilePath: path, MaxSize: 32, MaxBackups: 2})
	require.NoError(t, err)
	defer l.Close()

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err, "oversized log should be moved to .1")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
