// Package config provides YAML/TOML configuration loading for the board,
// storage and the SSH and HTTP servers.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/engine"
)

// Config is the complete application configuration.
type Config struct {
	Board   engine.Config `yaml:"board" toml:"board"`
	Limits  engine.Limits `yaml:"limits" toml:"limits"` // Largest board a player may pick
	Display DisplayConfig `yaml:"display" toml:"display"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	SSH     SSHConfig     `yaml:"ssh" toml:"ssh"`
	HTTP    HTTPConfig    `yaml:"http" toml:"http"`
}

// DisplayConfig controls the terminal presentation.
type DisplayConfig struct {
	TickRate int `yaml:"tick_rate" toml:"tick_rate"` // Timer refreshes per second
}

// StorageConfig locates the best-time database.
type StorageConfig struct {
	DBPath string `yaml:"db_path" toml:"db_path"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Address              string        `yaml:"address" toml:"address"`
	HostKeyPath          string        `yaml:"host_key_path" toml:"host_key_path"`
	IdleTimeout          time.Duration `yaml:"idle_timeout" toml:"idle_timeout"`
	MaxSessionsPerMinute int           `yaml:"max_sessions_per_minute" toml:"max_sessions_per_minute"` // Per remote host
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	Address        string        `yaml:"address" toml:"address"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps" toml:"rate_limit_rps"`
	RateLimitBurst int           `yaml:"rate_limit_burst" toml:"rate_limit_burst"`
	SessionTTL     time.Duration `yaml:"session_ttl" toml:"session_ttl"` // Idle games are dropped after this
	MaxSessions    int           `yaml:"max_sessions" toml:"max_sessions"`
}

// Default returns the built-in configuration: a 9x9 board with 10 mines.
func Default() Config {
	return Config{
		Board:  engine.Config{Rows: 9, Cols: 9, Mines: 10},
		Limits: engine.Limits{MaxRows: 100, MaxCols: 100},
		Display: DisplayConfig{
			TickRate: 4,
		},
		Storage: StorageConfig{
			DBPath: "~/.minesweeper/minesweeper.db",
		},
		SSH: SSHConfig{
			Address:              ":2222",
			HostKeyPath:          ".ssh/minesweeper_ed25519",
			IdleTimeout:          10 * time.Minute,
			MaxSessionsPerMinute: 10,
		},
		HTTP: HTTPConfig{
			Address:        ":8080",
			RateLimitRPS:   10,
			RateLimitBurst: 20,
			SessionTTL:     30 * time.Minute,
			MaxSessions:    1000,
		},
	}
}

// Validate checks the board and the server limits.
func (c Config) Validate() error {
	if c.Limits.MaxRows <= 0 || c.Limits.MaxCols <= 0 {
		return fmt.Errorf("config: limits must be positive, got %dx%d", c.Limits.MaxRows, c.Limits.MaxCols)
	}
	if err := c.Limits.Check(c.Board); err != nil {
		return err
	}
	if c.Display.TickRate <= 0 {
		return fmt.Errorf("config: tick_rate must be positive, got %d", c.Display.TickRate)
	}
	if c.HTTP.RateLimitRPS <= 0 || c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("config: http rate limit must be positive")
	}
	if c.HTTP.SessionTTL <= 0 {
		return fmt.Errorf("config: http session_ttl must be positive")
	}
	return nil
}

// Runtime builds the game runtime configuration for a terminal of the given size.
// A zero seed makes every session pick its own.
func (c Config) Runtime(width, height int, seed int64) core.RuntimeConfig {
	rc := core.DefaultConfig()
	if width > 0 {
		rc.ScreenW = width
	}
	if height > 0 {
		rc.ScreenH = height
	}
	if c.Display.TickRate > 0 {
		rc.TickRate = c.Display.TickRate
	}
	rc.Seed = seed
	rc.Board = c.Board
	rc.Limits = c.Limits
	return rc
}
