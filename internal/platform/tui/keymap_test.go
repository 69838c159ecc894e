package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/timeslip/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"a", runeKey("a"), core.ActionLeft, false},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"d", runeKey("d"), core.ActionRight, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionJump, false},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump, false},
		{"j", runeKey("j"), core.ActionAttack, false},
		{"r", runeKey("r"), core.ActionRewind, false},
		{"p", runeKey("p"), core.ActionPause, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"q", runeKey("q"), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey("z"), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action {
				t.Errorf("action = %v, expected %v", action, tt.action)
			}
			if quit != tt.quit {
				t.Errorf("quit = %v, expected %v", quit, tt.quit)
			}
		})
	}
}

func TestMapKeyToFrameRewindIsRestart(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey("r"), &frame) {
		t.Fatal("r should not quit")
	}
	if !frame.Has(core.ActionRewind) || !frame.Has(core.ActionRestart) {
		t.Errorf("frame = %v, expected rewind and restart", frame.Actions)
	}
}

func TestHoldTracker(t *testing.T) {
	t0 := time.Unix(1000, 0)

	t.Run("rewind held within window", func(t *testing.T) {
		h := NewHoldTracker(600 * time.Millisecond)
		h.Press(core.ActionRewind, t0)

		frame := core.NewInputFrame()
		h.Apply(&frame, t0.Add(500*time.Millisecond))
		if !frame.Has(core.ActionRewind) {
			t.Error("rewind should still be held after 500ms")
		}

		frame.Clear()
		h.Apply(&frame, t0.Add(700*time.Millisecond))
		if frame.Has(core.ActionRewind) {
			t.Error("rewind should be released after 700ms")
		}
	})

	t.Run("auto-repeat extends hold", func(t *testing.T) {
		h := NewHoldTracker(600 * time.Millisecond)
		h.Press(core.ActionRewind, t0)
		h.Press(core.ActionRewind, t0.Add(400*time.Millisecond))

		frame := core.NewInputFrame()
		h.Apply(&frame, t0.Add(900*time.Millisecond))
		if !frame.Has(core.ActionRewind) {
			t.Error("repeated press should extend the hold")
		}
	})

	t.Run("opposite direction releases", func(t *testing.T) {
		h := NewHoldTracker(DefaultHoldWindow)
		h.Press(core.ActionLeft, t0)
		h.Press(core.ActionRight, t0.Add(10*time.Millisecond))

		frame := core.NewInputFrame()
		h.Apply(&frame, t0.Add(20*time.Millisecond))
		if frame.Has(core.ActionLeft) {
			t.Error("left should be released by right")
		}
		if !frame.Has(core.ActionRight) {
			t.Error("right should be held")
		}
	})

	t.Run("untracked ignored", func(t *testing.T) {
		h := NewHoldTracker(DefaultHoldWindow)
		h.Press(core.ActionJump, t0)

		frame := core.NewInputFrame()
		h.Apply(&frame, t0)
		if frame.Has(core.ActionJump) {
			t.Error("jump should not be held")
		}
	})

	t.Run("release", func(t *testing.T) {
		h := NewHoldTracker(DefaultHoldWindow)
		h.Press(core.ActionRewind, t0)
		h.Press(core.ActionLeft, t0)
		h.Release()

		frame := core.NewInputFrame()
		h.Apply(&frame, t0)
		if len(frame.Actions) != 0 {
			t.Errorf("frame = %v, expected empty", frame.Actions)
		}
	})
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg      tea.KeyMsg
		expected MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey("q"), MenuActionQuit},
		{runeKey("x"), MenuActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			if got := km.MapKeyToMenuAction(tt.msg); got != tt.expected {
				t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.expected)
			}
		})
	}
}
