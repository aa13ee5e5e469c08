package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvRows     = "MINESWEEPER_ROWS"
	EnvCols     = "MINESWEEPER_COLS"
	EnvMines    = "MINESWEEPER_MINES"
	EnvDB       = "MINESWEEPER_DB"
	EnvSSHAddr  = "MINESWEEPER_SSH_ADDR"
	EnvHTTPAddr = "MINESWEEPER_HTTP_ADDR"
)

// Load loads the application configuration.
// Search order: customPath -> ~/.minesweeper/config.yaml -> ./configs/minesweeper.yaml -> embedded default.
// Files only need to set the keys they change; the rest keep their defaults.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		return LoadFile(customPath)
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if cfg, err := LoadFile(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := LoadFile(filepath.Join("configs", "minesweeper.yaml")); err == nil {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg := Default()
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadFile reads one configuration file over the defaults.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from the environment. Variables are first loaded from
// envFiles, or from ./.env when it exists and no files are given. Variables
// already set in the process environment win over file values.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return fmt.Errorf("failed to load env files: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvRows, &cfg.Board.Rows},
		{EnvCols, &cfg.Board.Cols},
		{EnvMines, &cfg.Board.Mines},
	}
	for _, v := range ints {
		val := os.Getenv(v.key)
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", v.key, val, err)
		}
		*v.dst = n
	}

	if val := os.Getenv(EnvDB); val != "" {
		cfg.Storage.DBPath = val
	}
	if val := os.Getenv(EnvSSHAddr); val != "" {
		cfg.SSH.Address = val
	}
	if val := os.Getenv(EnvHTTPAddr); val != "" {
		cfg.HTTP.Address = val
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".minesweeper", filename)
}
