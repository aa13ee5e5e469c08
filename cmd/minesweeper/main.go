// minesweeper is a terminal minesweeper with best times, an SSH server and a JSON API.
//
// Usage:
//
//	minesweeper play             - Play in the terminal
//	minesweeper scores           - Show best times
//	minesweeper serve            - Start SSH server for remote play
//	minesweeper web              - Start the HTTP API
//
// Global flags:
//
//	--config <path> - YAML or TOML config file
//	--db <path>     - Set database path (default: ~/.minesweeper/minesweeper.db)
//	--seed <value>  - Set RNG seed for reproducible boards
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

var (
	// Global flags
	flagConfig string
	flagSeed   int64
	flagDBPath string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "minesweeper",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Minesweeper in your terminal",
	Long: `Minesweeper for the terminal, over SSH and over HTTP.

Available commands:
  play     - Play a game in this terminal
  scores   - View best times and results
  serve    - Start SSH server for remote play
  web      - Start the JSON HTTP API

Examples:
  minesweeper play
  minesweeper play --board 16x30-99
  minesweeper scores --board 9x9-10
  minesweeper serve --ssh :2222
  minesweeper web --addr :8080`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML or TOML config file")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to best-time database (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
}

// loadConfig reads the config file and the environment, then applies the global flags.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	return cfg
}

// openStore opens the best-time database. Without it games still run.
func openStore(path string) *storage.Store {
	store, err := storage.Open(path)
	if err != nil {
		logger.Warn("could not open best-time database", "path", path, "error", err)
		return nil
	}
	return store
}

// validate exits when cfg cannot be used.
func validate(cfg config.Config) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
