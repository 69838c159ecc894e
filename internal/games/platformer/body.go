package platformer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/timeslip/internal/core"
)

// Body is an axis-aligned physics body moving through level tiles. It
// implements rewind.Body.
type Body struct {
	Box       core.Box
	Vel       mgl64.Vec2
	Spin      float64 // Radians per second; only fireballs spin
	Angle     float64
	Gravity   bool
	kinematic bool

	OnGround   bool
	HitWall    bool
	HitCeiling bool
}

// NewBody creates a body of size w×h whose top-left corner is at (x, y).
func NewBody(x, y, w, h float64) *Body {
	return &Body{Box: core.Box{X: x, Y: y, W: w, H: h}, Gravity: true}
}

// Pose implements rewind.Body. Z is unused.
func (b *Body) Pose() (mgl64.Vec3, mgl64.Quat) {
	return mgl64.Vec3{b.Box.X, b.Box.Y, 0}, mgl64.QuatRotate(b.Angle, mgl64.Vec3{0, 0, 1})
}

// SetPose implements rewind.Body.
func (b *Body) SetPose(p mgl64.Vec3, r mgl64.Quat) {
	b.Box.X, b.Box.Y = p.X(), p.Y()
	b.Angle = angleOf(r)
}

// Velocity implements rewind.Body.
func (b *Body) Velocity() (mgl64.Vec2, float64) {
	return b.Vel, b.Spin
}

// SetVelocity implements rewind.Body.
func (b *Body) SetVelocity(v mgl64.Vec2, spin float64) {
	b.Vel, b.Spin = v, spin
}

// Kinematic implements rewind.Body. Kinematic bodies ignore Step.
func (b *Body) Kinematic() bool {
	return b.kinematic
}

// SetKinematic implements rewind.Body.
func (b *Body) SetKinematic(k bool) {
	b.kinematic = k
}

// Step integrates the body for dt seconds and resolves tile collisions,
// x axis first.
func (b *Body) Step(level *Level, gravity, maxFall, dt float64) {
	b.HitWall, b.HitCeiling = false, false
	if b.kinematic {
		return
	}

	if b.Gravity {
		b.Vel[1] = math.Min(b.Vel[1]+gravity*dt, maxFall)
	}
	b.Angle = math.Mod(b.Angle+b.Spin*dt, 2*math.Pi)

	b.Box.X += b.Vel[0] * dt
	if b.collideX(level) {
		b.HitWall = true
		b.Vel[0] = 0
	}

	b.Box.Y += b.Vel[1] * dt
	b.OnGround = false
	if b.collideY(level) {
		if b.Vel[1] > 0 {
			b.OnGround = true
		} else {
			b.HitCeiling = true
		}
		b.Vel[1] = 0
	}
}

// Overlaps reports whether any tile under the body satisfies match.
func (b *Body) Overlaps(level *Level, match func(Tile) bool) bool {
	x0, y0, x1, y1 := b.Box.Cells()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if match(level.At(x, y)) {
				return true
			}
		}
	}
	return false
}

func (b *Body) collideX(level *Level) bool {
	x0, y0, x1, y1 := b.Box.Cells()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !level.Solid(x, y) {
				continue
			}
			if b.Vel[0] > 0 {
				b.Box.X = float64(x) - b.Box.W
			} else {
				b.Box.X = float64(x + 1)
			}
			return true
		}
	}
	return false
}

func (b *Body) collideY(level *Level) bool {
	x0, y0, x1, y1 := b.Box.Cells()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !level.Solid(x, y) {
				continue
			}
			if b.Vel[1] > 0 {
				b.Box.Y = float64(y) - b.Box.H
			} else {
				b.Box.Y = float64(y + 1)
			}
			return true
		}
	}
	return false
}

// Cell returns the screen cell of the body's centre.
func (b *Body) Cell() (int, int) {
	cx, cy := b.Box.Center()
	return int(math.Floor(cx)), int(math.Floor(cy))
}

// angleOf extracts the rotation about z from a quaternion.
func angleOf(q mgl64.Quat) float64 {
	return 2 * math.Atan2(q.V.Z(), q.W)
}
