package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/timeslip/internal/core"
)

// KeyMap holds the in-game key bindings. It implements help.KeyMap.
type KeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Jump   key.Binding
	Attack key.Binding
	Rewind key.Binding
	Pause  key.Binding
	Back   key.Binding
	Shot   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default in-game bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Jump: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space", "jump"),
		),
		Attack: key.NewBinding(
			key.WithKeys("j", "x"),
			key.WithHelp("j/x", "attack"),
		),
		Rewind: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "hold to rewind"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Shot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Jump, k.Attack, k.Rewind, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Jump, k.Attack},
		{k.Rewind, k.Pause, k.Back, k.Shot, k.Quit},
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys KeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultKeyMap()}
}

// Keys returns the bindings, for help rendering.
func (km *KeyMapper) Keys() KeyMap {
	return km.keys
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
// The rewind key doubles as restart; the game only honours restart once
// the run is over.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, k.Left):
		return core.ActionLeft, false
	case key.Matches(msg, k.Right):
		return core.ActionRight, false
	case key.Matches(msg, k.Jump):
		return core.ActionJump, false
	case key.Matches(msg, k.Attack):
		return core.ActionAttack, false
	case key.Matches(msg, k.Rewind):
		return core.ActionRewind, false
	case key.Matches(msg, k.Pause):
		return core.ActionPause, false
	case key.Matches(msg, k.Back):
		return core.ActionBack, false
	case msg.String() == "enter":
		return core.ActionConfirm, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	if action == core.ActionRewind {
		frame.Set(core.ActionRestart)
	}
	return isQuit
}

// HoldTracker turns key presses into held actions. Terminals report only
// presses and auto-repeat, never releases, so an action counts as held
// until its window passes without another press.
type HoldTracker struct {
	windows map[core.Action]time.Duration
	last    map[core.Action]time.Time
}

// Hold windows for movement; rewind uses the configured window.
const defaultMoveHold = 250 * time.Millisecond

// NewHoldTracker tracks left, right and rewind. rewindHold is the window
// for the rewind key.
func NewHoldTracker(rewindHold time.Duration) *HoldTracker {
	return &HoldTracker{
		windows: map[core.Action]time.Duration{
			core.ActionLeft:   defaultMoveHold,
			core.ActionRight:  defaultMoveHold,
			core.ActionRewind: rewindHold,
		},
		last: make(map[core.Action]time.Time),
	}
}

// Press records a press of a. Untracked actions are ignored. Pressing one
// direction releases the other.
func (h *HoldTracker) Press(a core.Action, now time.Time) {
	if _, ok := h.windows[a]; !ok {
		return
	}
	switch a {
	case core.ActionLeft:
		delete(h.last, core.ActionRight)
	case core.ActionRight:
		delete(h.last, core.ActionLeft)
	}
	h.last[a] = now
}

// Apply sets every action still held at now on frame.
func (h *HoldTracker) Apply(frame *core.InputFrame, now time.Time) {
	for a, at := range h.last {
		if now.Sub(at) <= h.windows[a] {
			frame.Set(a)
		} else {
			delete(h.last, a)
		}
	}
}

// Release forgets every held action.
func (h *HoldTracker) Release() {
	clear(h.last)
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
