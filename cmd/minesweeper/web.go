package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/platform/web"
)

var flagHTTPAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the JSON HTTP API",
	Long: `Start an HTTP server hosting games as JSON resources.

Routes:
  POST   /api/games              - New game {rows, cols, mines, seed}
  GET    /api/games/:id          - Game view
  POST   /api/games/:id/reveal   - Reveal {row, col}
  POST   /api/games/:id/flag     - Toggle flag {row, col}
  GET    /api/games/:id/peek     - Hidden mine positions
  DELETE /api/games/:id          - Drop a game
  GET    /api/best-times         - Stored best times
  GET    /api/best-times/:board  - Stats of one board
  GET    /healthz                - Health check

Set GIN_MODE=debug for gin's route log.

Examples:
  minesweeper web
  minesweeper web --addr :9000`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagHTTPAddr, "addr", "", "HTTP listen address, overrides config")
}

func runWeb(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagHTTPAddr != "" {
		cfg.HTTP.Address = flagHTTPAddr
	}
	validate(cfg)

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	store := openStore(cfg.Storage.DBPath)
	server := web.NewServer(cfg, store)

	fmt.Printf("Starting minesweeper HTTP API on %s\n", cfg.HTTP.Address)
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := server.ListenAndServe(ctx)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", runErr)
		os.Exit(1)
	}
}
