package platformer

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/timeslip/internal/core"
	"github.com/vovakirdan/timeslip/internal/rewind"
)

// Orb is a mana pickup. A collected orb is destroyed for good; the
// coordinator drops it from the registry on its next recording pass.
type Orb struct {
	box       core.Box
	bob       float64 // Animation phase in [0, 1)
	collected bool
}

// NewOrb places an orb in tile (x, y).
func NewOrb(x, y int) *Orb {
	return &Orb{box: core.Box{X: float64(x) + 0.25, Y: float64(y) + 0.25, W: 0.5, H: 0.5}}
}

func (o *Orb) BeginRewind() {}
func (o *Orb) EndRewind()   {}

func (o *Orb) CaptureState() rewind.Snapshot {
	s := rewind.NewSnapshot(0, mgl64.Vec3{o.box.X, o.box.Y, 0}, mgl64.QuatIdent())
	s.AnimPhase = o.bob
	return s
}

func (o *Orb) ApplyState(s rewind.Snapshot) {
	o.bob = s.AnimPhase
}

// Alive implements rewind.Liveness.
func (o *Orb) Alive() bool {
	return !o.collected
}

// Box returns the orb bounds.
func (o *Orb) Box() core.Box { return o.box }

// Collect marks the orb as taken. It reports false if it already was.
func (o *Orb) Collect() bool {
	if o.collected {
		return false
	}
	o.collected = true
	return true
}

// Update advances the bobbing animation.
func (o *Orb) Update(dt float64) {
	o.bob += dt
	o.bob -= float64(int(o.bob))
}

// Glyph returns the orb frame for its bob phase.
func (o *Orb) Glyph() rune {
	if o.bob < 0.5 {
		return 'o'
	}
	return 'O'
}
