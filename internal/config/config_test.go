package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG_CONFIG_HOME and the working directory at fresh temp
// dirs and clears every ROOMPREFS_ variable Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg"))
	for _, key := range keys {
		t.Setenv("ROOMPREFS_"+strings.ToUpper(key), "")
		_ = os.Unsetenv("ROOMPREFS_" + strings.ToUpper(key))
	}
	work := filepath.Join(tmp, "work")
	require.NoError(t, os.MkdirAll(work, 0755))
	t.Chdir(work)
	return tmp
}

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		assert.Equal(t, "/custom/config/roomprefs/roomprefs.yml", GlobalPath())
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		got := GlobalPath()
		assert.True(t, filepath.IsAbs(got), "GlobalPath() should be absolute, got %v", got)
		assert.Equal(t, "roomprefs.yml", filepath.Base(got))
	})
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultDebounce, cfg.Debounce)
	assert.Equal(t, time.Duration(0), cfg.Latency)
	assert.Equal(t, DefaultClickTimeout, cfg.ClickTimeout)
	assert.Equal(t, DefaultHooksFile, cfg.HooksFile)
	assert.Equal(t, filepath.Join(DefaultDataDir, "nats"), cfg.NATSDir())
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	isolate(t)

	global := GlobalPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(global), 0755))
	require.NoError(t, os.WriteFile(global, []byte("room: \"!global:example.org\"\ndebounce: 2s\n"), 0644))
	require.NoError(t, os.WriteFile(ProjectPath(), []byte("room: \"!project:example.org\"\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "!project:example.org", cfg.Room)
	assert.Equal(t, 2*time.Second, cfg.Debounce, "global value survives when project file omits it")
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("debounce: 2s\n"), 0644))
	t.Setenv("ROOMPREFS_DEBOUNCE", "150ms")
	t.Setenv("ROOMPREFS_LATENCY", "1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, cfg.Debounce)
	assert.Equal(t, time.Second, cfg.Latency)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("click_timeout: 0s\n"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "click_timeout")
}

func TestExists(t *testing.T) {
	isolate(t)

	assert.False(t, Exists())
	require.NoError(t, os.WriteFile(ProjectPath(), []byte("room: x\n"), 0644))
	assert.True(t, Exists())
}

func TestWriteGlobalRoundTrip(t *testing.T) {
	isolate(t)

	cfg := &Config{
		DataDir:      "/var/lib/roomprefs",
		Room:         "!abc:example.org",
		Debounce:     750 * time.Millisecond,
		Latency:      200 * time.Millisecond,
		ClickTimeout: 10 * time.Second,
	}
	require.NoError(t, WriteGlobal(cfg))

	data, err := os.ReadFile(GlobalPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "debounce: 750ms")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.DataDir, loaded.DataDir)
	assert.Equal(t, cfg.Room, loaded.Room)
	assert.Equal(t, cfg.Debounce, loaded.Debounce)
	assert.Equal(t, cfg.Latency, loaded.Latency)
	assert.Equal(t, cfg.ClickTimeout, loaded.ClickTimeout)
}

func TestWriteProject(t *testing.T) {
	isolate(t)

	cfg := &Config{DataDir: ".rp", Debounce: time.Second, ClickTimeout: time.Minute}
	require.NoError(t, WriteProject(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ".rp", loaded.DataDir)
	assert.Equal(t, time.Minute, loaded.ClickTimeout)
}
