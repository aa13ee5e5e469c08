package core

// Color is the foreground colour of a screen cell.
// Platforms map it to their own palette; the TUI uses ANSI 256-colour codes.
type Color uint8

// Palette used by the board: numbers 1..8, flags, mines and chrome.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightMagenta
	ColorBrightWhite
	ColorGray
)
