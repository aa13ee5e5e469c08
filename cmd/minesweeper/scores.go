package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-minesweeper/internal/engine"
	"github.com/vovakirdan/tui-minesweeper/internal/platform/tui"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

var (
	flagScoresBoard string
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show best times",
	Long: `Display best times per board configuration.

In a terminal without flags the interactive table is shown;
when the output is piped the list is printed instead.
With --board the stats and the last results of one board are printed.

Examples:
  minesweeper scores
  minesweeper scores --board 9x9-10
  minesweeper scores --board 9x9-10 --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresBoard, "board", "", "Board as ROWSxCOLS-MINES")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the best time and results of --board")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	if flagClear && flagScoresBoard == "" {
		fmt.Fprintln(os.Stderr, "Error: --clear needs --board")
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening best-time database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresBoard != "" {
		board, err := engine.ParseConfig(flagScoresBoard)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if flagClear {
			if err := store.ClearResults(board.Key()); err != nil {
				fmt.Fprintf(os.Stderr, "Error clearing %s: %v\n", board.Key(), err)
				os.Exit(1)
			}
			fmt.Printf("Cleared best time and results for %s\n", board.Key())
			return
		}
		if err := printBoard(store, board); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil && term.IsTerminal(int(os.Stdin.Fd())) {
		if err := tui.RunScoreboard(store, w, h); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := printBestTimes(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving best times: %v\n", err)
		os.Exit(1)
	}
}

func printBestTimes(store *storage.Store) error {
	entries, err := store.BestTimes()
	if err != nil {
		return err
	}

	fmt.Println("Best Times")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No best times recorded yet.")
		fmt.Println()
		fmt.Println("Play 'minesweeper play' to set the first one!")
		return nil
	}

	fmt.Printf("  %-12s  %-8s  %s\n", "Board", "Best", "Date")
	fmt.Printf("  %-12s  %-8s  %s\n", "-----", "----", "----")
	for _, e := range entries {
		fmt.Printf("  %-12s  %-8s  %s\n", e.ConfigKey, fmt.Sprintf("%ds", e.Seconds), e.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printBoard(store *storage.Store, board engine.Config) error {
	key := board.Key()
	stats, err := store.GetStats(key)
	if err != nil {
		return err
	}
	recent, err := store.RecentResults(key, 10)
	if err != nil {
		return err
	}

	fmt.Printf("Board %s (%d rows, %d cols, %d mines)\n", key, board.Rows, board.Cols, board.Mines)
	fmt.Println()

	if stats.Played == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'minesweeper play --board %s' to start!\n", key)
		return nil
	}

	fmt.Printf("Played: %d  Won: %d\n", stats.Played, stats.Wins)
	if stats.Wins > 0 {
		fmt.Printf("Best: %ds  Average win: %.1fs\n", stats.FastestSeconds, stats.AverageWin)
	}
	fmt.Println()

	fmt.Printf("  %-6s  %-8s  %s\n", "Result", "Time", "Date")
	fmt.Printf("  %-6s  %-8s  %s\n", "------", "----", "----")
	for _, r := range recent {
		result := "lost"
		if r.Won {
			result = "won"
		}
		fmt.Printf("  %-6s  %-8s  %s\n", result, fmt.Sprintf("%ds", r.Seconds), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
