package platformer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/timeslip/internal/rewind"
)

const (
	keyActive = "active"
	keyLife   = "life"
)

var fireballPolicy = rewind.BlendPolicy{keyLife: rewind.BlendFloat}

// Fireball is a pooled projectile. Inactive fireballs stay registered so a
// rewind can bring back one that was fired and later expired.
type Fireball struct {
	body   *Body
	bodies *rewind.BodyTrack
	active bool
	life   float64
}

func newFireball() *Fireball {
	body := NewBody(0, 0, 0.5, 0.5)
	body.Gravity = false
	return &Fireball{body: body, bodies: rewind.NewBodyTrack(body)}
}

func (f *Fireball) BeginRewind() { f.bodies.Begin() }
func (f *Fireball) EndRewind()   { f.bodies.End() }

func (f *Fireball) CaptureState() rewind.Snapshot {
	var s rewind.Snapshot
	f.bodies.Capture(&s)
	s.SetBool(keyActive, f.active)
	s.SetFloat(keyLife, f.life)
	return s
}

func (f *Fireball) ApplyState(s rewind.Snapshot) {
	f.bodies.Apply(s)
	f.active = s.Extras.Bool(keyActive, false)
	f.life = s.Extras.Float(keyLife, 0)
}

// BlendPolicy implements rewind.PolicyProvider.
func (f *Fireball) BlendPolicy() rewind.BlendPolicy {
	return fireballPolicy
}

// Active reports whether the fireball is in flight.
func (f *Fireball) Active() bool {
	return f.active
}

// Glyph spins through a few frames by angle.
func (f *Fireball) Glyph() rune {
	frames := []rune{'*', '+', 'x', '+'}
	a := math.Mod(f.body.Angle+2*math.Pi, 2*math.Pi)
	return frames[int(a/(math.Pi/2))%len(frames)]
}

func (f *Fireball) update(level *Level, dt float64) {
	if !f.active {
		return
	}
	f.body.Step(level, 0, 0, dt)
	f.life -= dt
	if f.life <= 0 || f.body.HitWall {
		f.active = false
	}
}

// FireballPool owns a fixed set of fireballs.
type FireballPool struct {
	balls []*Fireball
}

// NewFireballPool allocates size fireballs.
func NewFireballPool(size int) *FireballPool {
	p := &FireballPool{balls: make([]*Fireball, size)}
	for i := range p.balls {
		p.balls[i] = newFireball()
	}
	return p
}

// Fire launches an idle fireball from (x, y) with velocity v. It returns
// false when every fireball is in flight.
func (p *FireballPool) Fire(x, y float64, v mgl64.Vec2, life float64) bool {
	for _, f := range p.balls {
		if f.active {
			continue
		}
		f.active = true
		f.life = life
		f.body.Box.X, f.body.Box.Y = x-f.body.Box.W/2, y-f.body.Box.H/2
		f.body.Vel = v
		f.body.Spin = 4 * math.Pi * math.Copysign(1, v.X())
		f.body.Angle = 0
		return true
	}
	return false
}

// Update advances every active fireball.
func (p *FireballPool) Update(level *Level, dt float64) {
	for _, f := range p.balls {
		f.update(level, dt)
	}
}

// All returns every pooled fireball.
func (p *FireballPool) All() []*Fireball {
	return p.balls
}

// ActiveCount returns how many fireballs are in flight.
func (p *FireballPool) ActiveCount() int {
	n := 0
	for _, f := range p.balls {
		if f.active {
			n++
		}
	}
	return n
}
