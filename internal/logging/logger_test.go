package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesSessionFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir, "engine", LevelInfo)
	require.NoError(t, err)
	defer l.Close()

	l.Infof("mined %d", 3)
	l.Debugf("hidden")

	want := filepath.Join(dir, SessionID()+"-mine-anything.log")
	assert.Equal(t, want, l.Path())
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "[engine] [INFO] mined 3")
	assert.NotContains(t, out, "hidden")
}

func TestNewFallsBackToStderr(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	l, err := New(filepath.Join(blocker, "logs"), "engine", LevelInfo)
	require.Error(t, err)
	require.NotNil(t, l)
	assert.Empty(t, l.Path())
	assert.NoError(t, l.Close())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		min  Level
		want []string
	}{
		{LevelDebug, []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{LevelWarn, []string{"WARN", "ERROR"}},
		{LevelError, []string{"ERROR"}},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		l := NewWriter(&buf, "c", tc.min)
		l.Debugf("x")
		l.Infof("x")
		l.Warnf("x")
		l.Errorf("x")
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != len(tc.want) {
			t.Fatalf("min %s: got %d lines, want %d: %q", tc.min, len(lines), len(tc.want), buf.String())
		}
		for i, lvl := range tc.want {
			if !strings.Contains(lines[i], "["+lvl+"]") {
				t.Fatalf("min %s line %d = %q, want level %s", tc.min, i, lines[i], lvl)
			}
		}
	}
}

func TestWithSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	root := NewWriter(&buf, "root", LevelInfo)
	root.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	child := root.With("debugcmd")
	child.Infof("hello")
	assert.Equal(t, "[2026-03-01 12:00:00.000] [debugcmd] [INFO] hello\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"": LevelInfo, "DEBUG": LevelDebug, "warning": LevelWarn, " error ": LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	assert.False(t, l.Enabled(LevelError))
	l.Errorf("nothing")
}
