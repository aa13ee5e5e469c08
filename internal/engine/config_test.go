package engine

import (
	"errors"
	"testing"
)

func TestConfigKey(t *testing.T) {
	cfg := Config{Rows: 9, Cols: 16, Mines: 40}
	if got := cfg.Key(); got != "9x16-40" {
		t.Errorf("Key() = %q, want %q", got, "9x16-40")
	}
	if cfg.SafeCells() != 9*16-40 {
		t.Errorf("SafeCells() = %d", cfg.SafeCells())
	}
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Config
		wantErr bool
	}{
		{name: "beginner", input: "9x9-10", want: Config{Rows: 9, Cols: 9, Mines: 10}},
		{name: "upper case separator", input: "16X30-99", want: Config{Rows: 16, Cols: 30, Mines: 99}},
		{name: "surrounding spaces", input: "  2x2-1 ", want: Config{Rows: 2, Cols: 2, Mines: 1}},
		{name: "missing mines", input: "9x9", wantErr: true},
		{name: "missing separator", input: "99-10", wantErr: true},
		{name: "not a number", input: "ax9-10", wantErr: true},
		{name: "too many mines", input: "3x3-9", wantErr: true},
		{name: "zero mines", input: "1x1-0", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseConfig(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Errorf("ParseConfig(%q) error = %v, want ErrInvalidConfiguration", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseConfig(%q) failed: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseConfig(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
			// Round trip through the record key.
			if back, _ := ParseConfig(got.Key()); back != got {
				t.Errorf("round trip of %q gave %+v", got.Key(), back)
			}
		})
	}
}

func TestLimitsCheck(t *testing.T) {
	limits := Limits{MaxRows: 100, MaxCols: 50}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "at the cap", cfg: Config{Rows: 100, Cols: 50, Mines: 10}},
		{name: "too many rows", cfg: Config{Rows: 101, Cols: 9, Mines: 10}, wantErr: true},
		{name: "too many cols", cfg: Config{Rows: 9, Cols: 51, Mines: 10}, wantErr: true},
		{name: "huge board", cfg: Config{Rows: 3000, Cols: 3000, Mines: 1}, wantErr: true},
		{name: "invalid inside the cap", cfg: Config{Rows: 3, Cols: 3, Mines: 9}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := limits.Check(tc.cfg)
			if tc.wantErr != (err != nil) {
				t.Fatalf("Check(%v) error = %v, wantErr %v", tc.cfg, err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Check(%v) error = %v, want ErrInvalidConfiguration", tc.cfg, err)
			}
		})
	}

	if err := (Limits{}).Check(Config{Rows: 500, Cols: 500, Mines: 1}); err != nil {
		t.Errorf("zero limits should not cap the board: %v", err)
	}
}
