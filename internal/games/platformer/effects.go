package platformer

import (
	"github.com/vovakirdan/timeslip/internal/core"
	"github.com/vovakirdan/timeslip/internal/rewind"
)

const flashFrames = 8

// RewindEffects drives the rewind presentation from coordinator
// notifications alone: a tint over the world while rewinding and a short
// flash when live play resumes.
type RewindEffects struct {
	active   bool
	progress float64
	flash    int
	unsub    []func()
}

// NewRewindEffects subscribes to c.
func NewRewindEffects(c *rewind.Coordinator) *RewindEffects {
	e := &RewindEffects{}
	e.unsub = append(e.unsub,
		c.OnRewindStart(func() {
			e.active = true
			e.progress = 0
		}),
		c.OnRewindStop(func() {
			e.active = false
			e.flash = flashFrames
		}),
		c.OnRewindProgress(func(p float64) {
			e.progress = p
		}),
	)
	return e
}

// Close unsubscribes from the coordinator.
func (e *RewindEffects) Close() {
	for _, fn := range e.unsub {
		fn()
	}
	e.unsub = nil
}

// Active reports whether a rewind is being shown.
func (e *RewindEffects) Active() bool { return e.active }

// Progress returns the last published rewind progress.
func (e *RewindEffects) Progress() float64 { return e.progress }

// Tick advances the flash countdown by one frame.
func (e *RewindEffects) Tick() {
	if e.flash > 0 {
		e.flash--
	}
}

// Apply recolours rows [top, bottom) of dst and draws the progress marker
// on row markerY.
func (e *RewindEffects) Apply(dst *core.Screen, top, bottom, markerY int) {
	switch {
	case e.active:
		color := core.ColorBrightCyan
		if e.progress >= 1 {
			color = core.ColorBlue
		}
		dst.Tint(top, bottom, color)

		w := dst.Width()
		filled := int(e.progress * float64(w-2))
		for x := range w - 2 {
			r := '·'
			if x < filled {
				r = '◀'
			}
			dst.SetColor(1+x, markerY, r, core.ColorBrightCyan)
		}
	case e.flash > 0:
		dst.Tint(top, bottom, core.ColorBrightWhite)
	}
}
