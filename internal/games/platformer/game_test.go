package platformer

import (
	"strings"
	"testing"

	"github.com/vovakirdan/timeslip/internal/core"
	"github.com/vovakirdan/timeslip/internal/registry"
)

// newTestGame starts a level with only the embedded config visible.
func newTestGame(t *testing.T, id string) *Game {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	g := New(id)
	g.Reset(core.DefaultConfig())
	if g.err != nil {
		t.Fatalf("Reset() error: %v", g.err)
	}
	return g
}

func stepN(g *Game, n int, actions ...core.Action) core.StepResult {
	var res core.StepResult
	for range n {
		res = g.Step(core.NewInputFrameWith(actions...))
	}
	return res
}

func TestGameReset(t *testing.T) {
	g := newTestGame(t, "playground")
	st := g.State()

	if st.Score != 0 || st.GameOver || st.Paused || st.Rewinding {
		t.Errorf("fresh state = %+v", st)
	}
	if st.Mana != st.MaxMana || st.MaxMana != 100 {
		t.Errorf("mana = %v/%v, expected full 100", st.Mana, st.MaxMana)
	}

	// Player, pooled fireballs, platforms and orbs.
	expected := 1 + fireballPoolSize + 2 + 4
	coord := g.Coordinator()
	if coord.Len() != expected {
		t.Errorf("registered = %d, expected %d", coord.Len(), expected)
	}

	stepN(g, 30)
	g.Reset(core.DefaultConfig())
	if g.Coordinator() != coord {
		t.Error("Reset replaced the coordinator")
	}
	if coord.Len() != expected {
		t.Errorf("registered after Reset = %d, expected %d", coord.Len(), expected)
	}
	if coord.CanRewind() {
		t.Error("Reset kept history")
	}
	if g.State().PlaySeconds != 0 {
		t.Errorf("PlaySeconds after Reset = %v", g.State().PlaySeconds)
	}
}

func TestGamePlaySeconds(t *testing.T) {
	g := newTestGame(t, "playground")
	st := stepN(g, 60).State

	if st.PlaySeconds < 0.95 || st.PlaySeconds > 1.01 {
		t.Errorf("PlaySeconds after 60 frames = %v, expected about 1", st.PlaySeconds)
	}
}

func TestGameRewindRestoresPosition(t *testing.T) {
	g := newTestGame(t, "playground")
	startX := g.player.body.Box.X

	stepN(g, 30, core.ActionRight)
	movedX := g.player.body.Box.X
	if movedX < startX+2 {
		t.Fatalf("player moved from %v to %v, expected at least 2 tiles", startX, movedX)
	}

	st := stepN(g, 120, core.ActionRewind).State
	if !st.Rewinding {
		t.Fatal("holding rewind did not start a rewind")
	}
	if st.RewindProgress != 1 {
		t.Errorf("RewindProgress = %v after rewinding past the history, expected 1", st.RewindProgress)
	}
	if x := g.player.body.Box.X; x > startX+0.5 {
		t.Errorf("player x = %v after rewind, expected near start %v", x, startX)
	}
	if st.Mana >= st.MaxMana {
		t.Error("rewind did not cost mana")
	}

	st = stepN(g, 1).State
	if st.Rewinding {
		t.Error("releasing rewind did not stop it")
	}
	if st.Rewinds != 1 {
		t.Errorf("Rewinds = %d, expected 1", st.Rewinds)
	}
	if st.SecondsRewound <= 0 {
		t.Errorf("SecondsRewound = %v, expected positive", st.SecondsRewound)
	}
}

func TestGameRewindRestoresHealth(t *testing.T) {
	g := newTestGame(t, "playground")
	stepN(g, 60)

	g.player.Hurt(1, 0)
	stepN(g, 6)
	if g.player.Health() != 2 {
		t.Fatalf("health = %d after Hurt, expected 2", g.player.Health())
	}

	stepN(g, 30, core.ActionRewind)
	stepN(g, 1)
	if g.player.Health() != 3 {
		t.Errorf("health = %d after rewinding past the hit, expected 3", g.player.Health())
	}
}

func TestGameDownThenRewind(t *testing.T) {
	g := newTestGame(t, "playground")
	stepN(g, 60)

	g.player.Kill()
	stepN(g, 3)
	if g.state != StateDown {
		t.Fatalf("state = %q after Kill, expected down", g.state)
	}
	if g.State().GameOver {
		t.Error("down should not be game over yet")
	}

	stepN(g, 30, core.ActionRewind)
	stepN(g, 1)
	if g.state != StatePlaying {
		t.Errorf("state = %q after rewind, expected playing", g.state)
	}
	if g.player.Health() <= 0 {
		t.Errorf("health = %d after rewind, expected alive", g.player.Health())
	}
}

func TestGameDownTimesOut(t *testing.T) {
	g := newTestGame(t, "playground")
	stepN(g, 60)

	g.player.Kill()
	stepN(g, 3)
	st := stepN(g, int(downSeconds*60)+10).State
	if !st.GameOver || st.Won {
		t.Errorf("state after down timer = %+v, expected lost", st)
	}

	st = stepN(g, 1, core.ActionRestart).State
	if st.GameOver {
		t.Error("restart did not reset the game")
	}
	if g.player.Health() != 3 {
		t.Errorf("health after restart = %d, expected 3", g.player.Health())
	}
}

func TestGameCollectOrb(t *testing.T) {
	g := newTestGame(t, "playground")
	coord := g.Coordinator()
	before := coord.Len()

	orb := g.orbs[0]
	b := orb.Box()
	// Bottoms level so the player is clear of the ledge under the orb.
	g.player.body.Box.X, g.player.body.Box.Y = b.X, b.Bottom()-g.player.body.Box.H
	stepN(g, 3)

	if orb.Alive() {
		t.Fatal("orb not collected")
	}
	if g.player.Score() != g.cfg.Player.OrbPoints {
		t.Errorf("score = %d, expected %d", g.player.Score(), g.cfg.Player.OrbPoints)
	}
	if coord.Len() != before-1 {
		t.Errorf("registered = %d, expected %d", coord.Len(), before-1)
	}

	stepN(g, 30, core.ActionRewind)
	if orb.Alive() {
		t.Error("rewind brought back a collected orb")
	}
}

func TestGameWin(t *testing.T) {
	g := newTestGame(t, "timeslip")

	ex, ey := -1, -1
	for y, row := range g.level.Tiles {
		for x, tile := range row {
			if tile == TileExit {
				ex, ey = x, y
			}
		}
	}
	if ex < 0 {
		t.Fatal("timeslip level has no exit")
	}

	g.player.body.Box.X, g.player.body.Box.Y = float64(ex)+0.1, float64(ey)+0.1
	st := stepN(g, 3).State
	if !st.GameOver || !st.Won {
		t.Errorf("state on exit = %+v, expected won", st)
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(t, "playground")

	st := stepN(g, 1, core.ActionPause).State
	if !st.Paused {
		t.Fatal("pause not applied")
	}
	played := st.PlaySeconds
	stepN(g, 30)
	if g.State().PlaySeconds != played {
		t.Error("time advanced while paused")
	}
	if st := stepN(g, 1, core.ActionPause).State; st.Paused {
		t.Error("second pause did not resume")
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t, "playground")
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"Rewind Playground", "Score 0", "Mana"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	stepN(g, 30)
	stepN(g, 5, core.ActionRewind)
	g.Render(screen)
	if !strings.Contains(screen.String(), "REWIND") {
		t.Error("rewind indicator not drawn")
	}
	if c := screen.GetCell(1, screen.Height()-1); c.Color != core.ColorBrightCyan {
		t.Errorf("progress marker colour = %v, expected bright cyan", c.Color)
	}
}

func TestGameTooSmall(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	g := New("playground")
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 8, TickRate: 60})
	stepN(g, 10, core.ActionRight)

	screen := core.NewScreen(20, 8)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Errorf("render = %q, expected size warning", screen.String())
	}
	if g.State().PlaySeconds != 0 {
		t.Error("game advanced on a screen that is too small")
	}
}

func TestGameRegistered(t *testing.T) {
	for _, id := range []string{"timeslip", "playground"} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("registry.Create(%q) error: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, expected %q", g.ID(), id)
		}
		if _, ok := g.(registry.Rewinder); !ok {
			t.Errorf("%q does not expose its coordinator", id)
		}
	}
}
