package platformer

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/timeslip/internal/core"
)

const (
	hudRows    = 2 // Status line plus separator
	footerRows = 1
)

// Render draws the current game state into the provided screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		g.renderOverlay(dst, "Level failed to load", g.err.Error())
		return
	}
	if g.screenTooSmall || dst.Width() < minScreenW || dst.Height() < minScreenH {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need at least %dx%d", minScreenW, minScreenH))
		return
	}
	if g.player == nil {
		return
	}

	g.renderHUD(dst)

	top := hudRows
	bottom := dst.Height() - footerRows
	camX, camY := g.camera(dst.Width(), bottom-top)
	view := viewport{camX: camX, camY: camY, top: top, bottom: bottom, dst: dst}

	g.renderTiles(view)
	for _, m := range g.platforms {
		b := m.Box()
		for x := range int(b.W) {
			view.put(b.X+float64(x), b.Y, '=', core.ColorYellow)
		}
	}
	for _, o := range g.orbs {
		if o.Alive() {
			b := o.Box()
			view.put(b.X, b.Y, o.Glyph(), core.ColorBrightMagenta)
		}
	}
	for _, s := range g.slimes {
		color := core.ColorGreen
		switch {
		case s.Dead():
			color = core.ColorGray
		case s.State() == SlimeWindup:
			color = core.ColorBrightYellow
		}
		view.put(s.body.Box.X, s.body.Box.Y, s.Glyph(), color)
	}
	for _, f := range g.pool.All() {
		if f.Active() {
			view.put(f.body.Box.X, f.body.Box.Y, f.Glyph(), core.ColorOrange)
		}
	}
	g.renderPlayer(view)

	g.renderFooter(dst)
	g.effects.Apply(dst, top, bottom, dst.Height()-1)

	switch g.state {
	case StateWin:
		g.renderOverlay(dst, "Level complete!", fmt.Sprintf("Score: %d  Rewinds: %d", g.player.Score(), g.control.Rewinds()))
	case StateGameOver:
		g.renderOverlay(dst, "Game Over", "Press R to restart")
	case StateDown:
		g.renderOverlay(dst, "You fell", fmt.Sprintf("Hold R to rewind (%.0fs)", math.Ceil(g.downTimer)))
	case StatePaused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// camera returns the top-left level tile shown in a w x h viewport. It
// follows the player and centres levels narrower than the screen.
func (g *Game) camera(w, h int) (int, int) {
	px, py := g.player.body.Box.Center()
	return follow(px, w, g.level.Width), follow(py, h, g.level.Height)
}

func follow(center float64, view, size int) int {
	if size <= view {
		return -(view - size) / 2
	}
	c := int(math.Floor(center)) - view/2
	return max(0, min(c, size-view))
}

// viewport maps level coordinates onto the world rows of the screen.
type viewport struct {
	camX, camY  int
	top, bottom int
	dst         *core.Screen
}

func (v viewport) put(x, y float64, r rune, c core.Color) {
	v.putCell(int(math.Floor(x+0.5)), int(math.Floor(y+0.5)), r, c)
}

func (v viewport) putCell(tx, ty int, r rune, c core.Color) {
	sx := tx - v.camX
	sy := ty - v.camY + v.top
	if sy < v.top || sy >= v.bottom || sx < 0 || sx >= v.dst.Width() {
		return
	}
	v.dst.SetColor(sx, sy, r, c)
}

func (g *Game) renderTiles(v viewport) {
	rows := v.bottom - v.top
	for sy := range rows {
		ty := sy + v.camY
		for sx := range v.dst.Width() {
			tx := sx + v.camX
			if tx < 0 || tx >= g.level.Width || ty < 0 || ty >= g.level.Height {
				continue
			}
			switch g.level.Tiles[ty][tx] {
			case TileSolid:
				v.putCell(tx, ty, '█', core.ColorWhite)
			case TileSpikes:
				v.putCell(tx, ty, '^', core.ColorRed)
			case TileExit:
				v.putCell(tx, ty, 'E', core.ColorBrightGreen)
			}
		}
	}
}

func (g *Game) renderPlayer(v viewport) {
	p := g.player
	color := core.ColorBrightWhite
	switch {
	case p.Health() <= 0:
		color = core.ColorGray
	case p.invuln > 0:
		color = core.ColorBrightRed
	}
	b := p.body.Box
	v.put(b.X, b.Y, p.Glyph(), color)

	if box, ok := p.AttackBox(); ok {
		r := '>'
		if p.Facing() < 0 {
			r = '<'
		}
		v.put(box.X, box.Y, r, core.ColorBrightYellow)
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hp := strings.Repeat("♥", max(g.player.Health(), 0))
	hud := fmt.Sprintf(" %s  HP %s  Score %d", g.Title(), hp, g.player.Score())
	dst.DrawText(0, 0, hud)

	const barW = 10
	filled := 0
	if g.mana.Max() > 0 {
		filled = int(math.Round(g.mana.Value() / g.mana.Max() * barW))
	}
	bar := "[" + strings.Repeat("■", filled) + strings.Repeat(" ", barW-filled) + "]"
	x := len([]rune(hud)) + 2
	dst.DrawText(x, 0, "Mana")
	dst.DrawTextColor(x+5, 0, bar, core.ColorBrightMagenta)

	if g.coord.IsRewinding() {
		label := fmt.Sprintf("◀◀ REWIND %.1fs", g.coord.RemainingRewindTime())
		dst.DrawTextColor(dst.Width()-len([]rune(label))-1, 0, label, core.ColorBrightCyan)
	}

	dst.DrawHLine(0, 1, dst.Width(), '─')
}

func (g *Game) renderFooter(dst *core.Screen) {
	hint := " ←→ move  Space jump  J attack  R rewind  P pause  Q quit"
	dst.DrawTextColor(0, dst.Height()-1, hint, core.ColorGray)
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	w, h := dst.Width(), dst.Height()

	maxLen := max(len([]rune(line1)), len([]rune(line2)))
	boxW := min(maxLen+4, w)
	boxH := 5
	r := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRect(r, ' ')
	dst.DrawBox(r)
	dst.DrawTextCentered(r.Y+1, line1)
	dst.DrawTextCentered(r.Y+3, line2)
}
