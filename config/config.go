package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the Ktnack toolchain configuration.
type Config struct {
	// Interpreter settings
	Interpreter struct {
		MaxIterations uint64 `toml:"max_iterations"`
	} `toml:"interpreter"`

	// Compiled-binary settings (the static membuf, and where artifacts land)
	Compile struct {
		MemBufBytes uint   `toml:"membuf_bytes"`
		OutputDir   string `toml:"output_dir"`
	} `toml:"compile"`

	// External toolchain invoked by the compile pipeline
	Toolchain struct {
		NasmPath  string `toml:"nasm_path"`
		NasmFlags string `toml:"nasm_flags"`
		LinkPath  string `toml:"link_path"`
		LinkFlags string `toml:"link_flags"`
	} `toml:"toolchain"`

	// Debugger settings
	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowStack     bool `toml:"show_stack"`
		MemWindowSize int  `toml:"mem_window_size"`
	} `toml:"debugger"`
}

// DefaultConfig returns a configuration with default values, matching the
// fixed constants the interpreter and code generator otherwise assume.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Interpreter.MaxIterations = 32768

	cfg.Compile.MemBufBytes = 640 * 1024
	cfg.Compile.OutputDir = "."

	cfg.Toolchain.NasmPath = "nasm"
	cfg.Toolchain.NasmFlags = "-f win64"
	cfg.Toolchain.LinkPath = "link"
	cfg.Toolchain.LinkFlags = "/subsystem:console kernel32.lib msvcrt.lib legacy_stdio_definitions.lib"

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowStack = true
	cfg.Debugger.MemWindowSize = 16

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\ktnack\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "ktnack")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/ktnack/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "ktnack.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "ktnack")

	default:
		return "ktnack.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "ktnack.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file, falling back to
// DefaultConfig() when absent.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
