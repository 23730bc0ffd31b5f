package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.EqualValues(t, 32768, cfg.Interpreter.MaxIterations)
	assert.EqualValues(t, 640*1024, cfg.Compile.MemBufBytes)
	assert.Equal(t, ".", cfg.Compile.OutputDir)
	assert.Equal(t, "nasm", cfg.Toolchain.NasmPath)
	assert.Equal(t, "link", cfg.Toolchain.LinkPath)
	assert.Equal(t, 1000, cfg.Debugger.HistorySize)
	assert.True(t, cfg.Debugger.ShowStack)
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	require.NotEmpty(t, path)
	assert.Equal(t, "config.toml", filepath.Base(path))

	switch runtime.GOOS {
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if path != "ktnack.toml" {
			assert.Equal(t, "ktnack", filepath.Base(dir))
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Interpreter.MaxIterations = 5000
	cfg.Toolchain.NasmPath = "/usr/local/bin/nasm"
	cfg.Debugger.HistorySize = 500

	require.NoError(t, cfg.SaveTo(configPath))
	require.FileExists(t, configPath)

	loaded, err := LoadFrom(configPath)
	require.NoError(t, err)

	assert.EqualValues(t, 5000, loaded.Interpreter.MaxIterations)
	assert.Equal(t, "/usr/local/bin/nasm", loaded.Toolchain.NasmPath)
	assert.Equal(t, 500, loaded.Debugger.HistorySize)
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	require.NoError(t, err)
	assert.EqualValues(t, 32768, cfg.Interpreter.MaxIterations)
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[interpreter]
max_iterations = "not a number"
`
	require.NoError(t, os.WriteFile(configPath, []byte(invalidTOML), 0644))

	_, err := LoadFrom(configPath)
	assert.Error(t, err)
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	require.NoError(t, cfg.SaveTo(configPath))
	require.FileExists(t, configPath)
}
