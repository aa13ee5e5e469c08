package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-minesweeper/internal/engine"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper"
	"github.com/vovakirdan/tui-minesweeper/internal/platform/tui"
)

var (
	flagRows  int
	flagCols  int
	flagMines int
	flagBoard string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing in this terminal.

Without board flags a form asks for rows, columns and mines first.
Any board flag skips the form and starts right away.

Controls:
  Arrows/hjkl  - Move cursor
  Space/Enter  - Reveal
  F            - Flag
  V            - Peek at the mines
  R            - New game
  Mouse        - Left click reveals, right click flags
  Esc/B        - Back to the form
  Q/Ctrl+C     - Quit

Examples:
  minesweeper play
  minesweeper play --board 16x16-40
  minesweeper play --rows 9 --cols 9 --mines 10
  minesweeper play --board 9x9-10 --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagRows, "rows", 0, "Number of rows")
	playCmd.Flags().IntVar(&flagCols, "cols", 0, "Number of columns")
	playCmd.Flags().IntVar(&flagMines, "mines", 0, "Number of mines")
	playCmd.Flags().StringVar(&flagBoard, "board", "", "Board as ROWSxCOLS-MINES, e.g. 16x30-99")
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()

	startInGame := false
	if flagBoard != "" {
		board, err := engine.ParseConfig(flagBoard)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Board = board
		startInGame = true
	}
	if cmd.Flags().Changed("rows") {
		cfg.Board.Rows = flagRows
		startInGame = true
	}
	if cmd.Flags().Changed("cols") {
		cfg.Board.Cols = flagCols
		startInGame = true
	}
	if cmd.Flags().Changed("mines") {
		cfg.Board.Mines = flagMines
		startInGame = true
	}
	validate(cfg)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store := openStore(cfg.Storage.DBPath)
	last, runErr := tui.Run(store, cfg.Runtime(width, height, flagSeed), startInGame)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
	if last != nil {
		printSummary(*last)
	}
}

// printSummary shows the final board of a finished game after the alt screen closed.
func printSummary(snap minesweeper.Snapshot) {
	switch snap.Status {
	case engine.StatusWon.String():
		fmt.Printf("Cleared %s in %ds\n", snap.Board, snap.ElapsedSeconds)
	case engine.StatusLost.String():
		fmt.Printf("Lost on %s after %ds\n", snap.Board, snap.ElapsedSeconds)
	default:
		return
	}
	for _, row := range snap.Rows {
		fmt.Println("  " + row)
	}
}
