package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestLogger_SetLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "[WARN] warn message")
	assert.Contains(t, output, "[ERROR] error message")
	assert.False(t, l.Enabled(LevelInfo))
	assert.True(t, l.Enabled(LevelError))
}

func TestLogger_EnvVarLevel(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvFile, "")

	l := New()
	assert.Equal(t, LevelDebug, l.level)
}

func TestLogger_EnvVarFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roomprefs.log")
	t.Setenv(EnvFile, path)
	t.Setenv(EnvLevel, "")

	l := New()
	l.Info("room %s muted", "!abc:example.org")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "room !abc:example.org muted")
}

func TestLogger_Configure(t *testing.T) {
	t.Setenv(EnvFile, "")
	t.Setenv(EnvLevel, "")

	l := New()
	path := filepath.Join(t.TempDir(), "configured.log")
	require.NoError(t, l.Configure("debug", path))

	l.Debug("debounced %d notifications", 3)
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "[DEBUG] debounced 3 notifications"))
}

func TestLogger_ConfigureRejectsBadLevel(t *testing.T) {
	l := New()
	err := l.Configure("loud", "")
	assert.Error(t, err)
}

func TestLogger_ConfigureEmptyKeepsLevel(t *testing.T) {
	l := New()
	l.SetLevel(LevelError)
	require.NoError(t, l.Configure("", ""))
	assert.Equal(t, LevelError, l.level)
}

func TestLogger_CloseWithoutFile(t *testing.T) {
	l := New()
	assert.NoError(t, l.Close())
	assert.NoError(t, l.Close())
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	Default.SetOutput(&buf)
	Default.SetLevel(LevelDebug)
	t.Cleanup(func() {
		Default.SetOutput(io.Discard)
		Default.SetLevel(LevelInfo)
	})

	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	Error("error %d", 4)

	output := buf.String()
	for _, want := range []string{"debug 1", "info 2", "warn 3", "error 4"} {
		assert.Contains(t, output, want)
	}
}
