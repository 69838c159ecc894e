package platformer

import (
	"github.com/vovakirdan/timeslip/internal/config"
	"github.com/vovakirdan/timeslip/internal/rewind"
)

// RewindControl turns the rewind key into coordinator calls. It enforces
// the mana cost and keeps the live clock contiguous with the history that
// survives a rewind.
type RewindControl struct {
	coord *rewind.Coordinator
	clock *rewind.SimClock
	mana  *Mana
	mode  string

	prevHeld bool
	toggled  bool

	rewinds        int
	secondsRewound float64
}

// NewRewindControl creates a controller. mode is config.InputHold or
// config.InputToggle.
func NewRewindControl(coord *rewind.Coordinator, clock *rewind.SimClock, mana *Mana, mode string) *RewindControl {
	return &RewindControl{coord: coord, clock: clock, mana: mana, mode: mode}
}

// Frame processes one platform frame of dt seconds. held reports whether
// the rewind key is down this frame. It returns whether the game is
// rewinding after the frame.
func (r *RewindControl) Frame(held bool, dt float64) bool {
	wants := held
	if r.mode == config.InputToggle {
		if held && !r.prevHeld {
			r.toggled = !r.toggled
		}
		wants = r.toggled
	}
	r.prevHeld = held

	switch {
	case wants && !r.coord.IsRewinding():
		r.start()
	case !wants && r.coord.IsRewinding():
		r.Stop()
	}

	if !r.coord.IsRewinding() {
		return false
	}

	// Nothing is left to rewind; hold position without paying for it.
	if r.coord.RewindProgress() >= 1 {
		r.coord.Update(dt)
		return true
	}

	if !r.mana.Drain(dt) {
		r.Stop()
		return false
	}
	before := r.coord.Playhead()
	r.coord.Update(dt)
	r.secondsRewound += before - r.coord.Playhead()
	return true
}

func (r *RewindControl) start() {
	if !r.mana.CanStart() || !r.coord.CanRewind() {
		r.toggled = false
		return
	}
	r.coord.StartRewind()
	if r.coord.IsRewinding() {
		r.rewinds++
	}
}

// Stop ends a running rewind and moves the live clock to the playhead.
func (r *RewindControl) Stop() {
	r.toggled = false
	if !r.coord.IsRewinding() {
		return
	}
	r.coord.StopRewind()
	r.clock.Set(r.coord.Playhead())
}

// Rewinds returns how many rewinds have started since the last Reset.
func (r *RewindControl) Rewinds() int {
	return r.rewinds
}

// SecondsRewound returns the total history time played back.
func (r *RewindControl) SecondsRewound() float64 {
	return r.secondsRewound
}

// Reset clears statistics and input state.
func (r *RewindControl) Reset(mana *Mana, mode string) {
	r.Stop()
	r.mana = mana
	r.mode = mode
	r.prevHeld = false
	r.rewinds = 0
	r.secondsRewound = 0
}
