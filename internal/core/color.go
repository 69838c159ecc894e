package core

import "strconv"

// Color is a foreground colour for a screen cell. The zero value leaves
// the terminal's own colour in place.
type Color uint8

// Palette entries. The first fifteen follow the terminal's ANSI order.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray

	colorCount
)

// ANSI returns the 256-colour palette index for c as a string, or "" for
// ColorDefault and unknown values.
func (c Color) ANSI() string {
	switch {
	case c == ColorDefault || c >= colorCount:
		return ""
	case c <= ColorWhite:
		return strconv.Itoa(int(c))
	case c <= ColorBrightWhite:
		// Bright colours skip index 8 (bright black).
		return strconv.Itoa(int(c) + 1)
	case c == ColorOrange:
		return "208"
	}
	return "245"
}
