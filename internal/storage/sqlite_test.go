package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	// Reopening runs the migrations again without error.
	store2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	store2.Close()
}

func TestBestTimeAbsent(t *testing.T) {
	store := openTestStore(t)

	secs, ok, err := store.BestTime("9x9-10")
	if err != nil {
		t.Fatalf("BestTime() failed: %v", err)
	}
	if ok || secs != 0 {
		t.Errorf("BestTime() = (%d, %v), expected no record", secs, ok)
	}
}

func TestRecordBestTimeStrictlyLower(t *testing.T) {
	store := openTestStore(t)
	key := "9x9-10"

	tests := []struct {
		name     string
		seconds  int
		improved bool
		best     int
	}{
		{"first record", 100, true, 100},
		{"slower", 120, false, 100},
		{"equal", 100, false, 100},
		{"faster", 45, true, 45},
		{"zero", 0, true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			improved, err := store.RecordBestTime(key, tc.seconds)
			if err != nil {
				t.Fatalf("RecordBestTime() failed: %v", err)
			}
			if improved != tc.improved {
				t.Errorf("RecordBestTime(%d) improved = %v, expected %v", tc.seconds, improved, tc.improved)
			}

			best, ok, err := store.BestTime(key)
			if err != nil || !ok {
				t.Fatalf("BestTime() = (%d, %v, %v)", best, ok, err)
			}
			if best != tc.best {
				t.Errorf("BestTime() = %d, expected %d", best, tc.best)
			}
		})
	}
}

func TestRecordBestTimeNegative(t *testing.T) {
	store := openTestStore(t)

	_, err := store.RecordBestTime("2x2-1", -1)
	if !errors.Is(err, ErrNegativeTime) {
		t.Errorf("RecordBestTime(-1) error = %v, expected ErrNegativeTime", err)
	}
}

func TestBestTimesPerConfiguration(t *testing.T) {
	store := openTestStore(t)

	store.RecordBestTime("9x9-10", 30)
	store.RecordBestTime("16x16-40", 90)
	store.RecordBestTime("16x30-99", 200)

	entries, err := store.BestTimes()
	if err != nil {
		t.Fatalf("BestTimes() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(entries))
	}

	// Ordered by key.
	if entries[0].ConfigKey != "16x16-40" || entries[2].ConfigKey != "9x9-10" {
		t.Errorf("unexpected order: %+v", entries)
	}
	if entries[2].Seconds != 30 {
		t.Errorf("9x9-10 record = %d, expected 30", entries[2].Seconds)
	}
	if entries[0].UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be parsed")
	}
}

func TestSaveAndRecentResults(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.SaveResult(ResultEntry{Rows: 9, Cols: 9, Mines: 10, Won: i%2 == 0, Seconds: 10 * (i + 1)})
		if err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}
	store.SaveResult(ResultEntry{Rows: 2, Cols: 2, Mines: 1, Won: true, Seconds: 1})

	results, err := store.RecentResults("9x9-10", 3)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results with limit, got %d", len(results))
	}

	// Newest first.
	if results[0].Seconds != 50 || results[2].Seconds != 30 {
		t.Errorf("results not newest first: %+v", results)
	}
	for _, r := range results {
		if r.GameID == "" {
			t.Error("GameID should be generated")
		}
		if r.ConfigKey != "9x9-10" {
			t.Errorf("ConfigKey = %q, expected derived key", r.ConfigKey)
		}
	}
	if !results[0].Won || results[1].Won {
		t.Errorf("won flags not round-tripped: %+v", results)
	}
}

func TestGetStats(t *testing.T) {
	store := openTestStore(t)
	key := "9x9-10"

	empty, err := store.GetStats(key)
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if empty.Played != 0 || empty.Wins != 0 || empty.FastestSeconds != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveResult(ResultEntry{ConfigKey: key, Rows: 9, Cols: 9, Mines: 10, Won: true, Seconds: 40})
	store.SaveResult(ResultEntry{ConfigKey: key, Rows: 9, Cols: 9, Mines: 10, Won: false, Seconds: 5})
	store.SaveResult(ResultEntry{ConfigKey: key, Rows: 9, Cols: 9, Mines: 10, Won: true, Seconds: 20})

	stats, err := store.GetStats(key)
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}
	if stats.Played != 3 {
		t.Errorf("Played = %d, expected 3", stats.Played)
	}
	if stats.Wins != 2 {
		t.Errorf("Wins = %d, expected 2", stats.Wins)
	}
	if stats.FastestSeconds != 20 {
		t.Errorf("FastestSeconds = %d, expected 20", stats.FastestSeconds)
	}
	if stats.AverageWin != 30 {
		t.Errorf("AverageWin = %v, expected 30", stats.AverageWin)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestClearResults(t *testing.T) {
	store := openTestStore(t)

	store.RecordFinish(core.Finish{Board: engine.Config{Rows: 9, Cols: 9, Mines: 10}, Won: true, ElapsedSeconds: 12})
	store.RecordFinish(core.Finish{Board: engine.Config{Rows: 2, Cols: 2, Mines: 1}, Won: true, ElapsedSeconds: 1})

	if err := store.ClearResults("9x9-10"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	if _, ok, _ := store.BestTime("9x9-10"); ok {
		t.Error("record should be cleared")
	}
	if results, _ := store.RecentResults("9x9-10", 10); len(results) != 0 {
		t.Errorf("Expected no results after clear, got %d", len(results))
	}
	if _, ok, _ := store.BestTime("2x2-1"); !ok {
		t.Error("other configurations must be untouched")
	}
}

func TestRecordFinish(t *testing.T) {
	store := openTestStore(t)
	board := engine.Config{Rows: 9, Cols: 9, Mines: 10}

	improved, err := store.RecordFinish(core.Finish{Board: board, Won: false, ElapsedSeconds: 3})
	if err != nil {
		t.Fatalf("RecordFinish() failed: %v", err)
	}
	if improved {
		t.Error("a loss never improves the record")
	}
	if _, ok, _ := store.BestTime(board.Key()); ok {
		t.Error("a loss must not create a record")
	}

	improved, _ = store.RecordFinish(core.Finish{Board: board, Won: true, ElapsedSeconds: 60})
	if !improved {
		t.Error("first win should set the record")
	}
	improved, _ = store.RecordFinish(core.Finish{Board: board, Won: true, ElapsedSeconds: 61})
	if improved {
		t.Error("slower win should not improve the record")
	}

	stats, _ := store.GetStats(board.Key())
	if stats.Played != 3 || stats.Wins != 2 {
		t.Errorf("stats = %+v, expected 3 played and 2 wins", stats)
	}
}

func TestRecordFinishIsAtomic(t *testing.T) {
	store := openTestStore(t)
	board := engine.Config{Rows: 9, Cols: 9, Mines: 10}

	_, err := store.RecordFinish(core.Finish{Board: board, Won: true, ElapsedSeconds: -1})
	if !errors.Is(err, ErrNegativeTime) {
		t.Fatalf("RecordFinish() error = %v, want ErrNegativeTime", err)
	}
	if results, _ := store.RecentResults(board.Key(), 10); len(results) != 0 {
		t.Errorf("a rejected record must not leave a result row, got %d", len(results))
	}

	if _, err := store.db.Exec("DROP TABLE results"); err != nil {
		t.Fatalf("drop results: %v", err)
	}
	if _, err := store.RecordFinish(core.Finish{Board: board, Won: true, ElapsedSeconds: 30}); err == nil {
		t.Fatal("RecordFinish() should fail without the results table")
	}
	if _, ok, _ := store.BestTime(board.Key()); ok {
		t.Error("best time must roll back with the failed result")
	}
}
