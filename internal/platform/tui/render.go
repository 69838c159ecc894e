package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/timeslip/internal/core"
)

// Palette turns screen colours into styles for one renderer. SSH sessions
// each get their own so colour support follows the client terminal.
type Palette struct {
	styles map[core.Color]lipgloss.Style
}

// NewPalette builds a palette for r. A nil r uses the default renderer.
func NewPalette(r *lipgloss.Renderer) Palette {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	p := Palette{styles: make(map[core.Color]lipgloss.Style)}
	p.styles[core.ColorDefault] = r.NewStyle()
	for c := core.ColorDefault + 1; c.ANSI() != ""; c++ {
		p.styles[c] = r.NewStyle().Foreground(lipgloss.Color(c.ANSI()))
	}
	return p
}

var defaultPalette = NewPalette(nil)

// RenderScreen converts a Screen buffer to a styled string using the
// default renderer.
func RenderScreen(s *core.Screen) string {
	return defaultPalette.Render(s)
}

// Render converts a Screen buffer to a styled string.
// Adjacent cells with the same colour share one escape sequence.
func (p Palette) Render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color
			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(p.style(color).Render(run.String()))
		}
	}
	return sb.String()
}

func (p Palette) style(c core.Color) lipgloss.Style {
	if st, ok := p.styles[c]; ok {
		return st
	}
	return p.styles[core.ColorDefault]
}
