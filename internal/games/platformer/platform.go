package platformer

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/timeslip/internal/core"
	"github.com/vovakirdan/timeslip/internal/rewind"
)

const (
	platformWidth = 3
	platformSpeed = 3
)

// MovingPlatform shuttles horizontally between solid tiles and carries
// whatever stands on it. Only its transform and direction are recorded.
type MovingPlatform struct {
	box core.Box
	dir int
	dx  float64 // Movement during the last step, for carrying riders
}

// NewMovingPlatform places a platform with its left edge on tile (x, y).
func NewMovingPlatform(x, y int) *MovingPlatform {
	return &MovingPlatform{
		box: core.Box{X: float64(x), Y: float64(y), W: platformWidth, H: 1},
		dir: 1,
	}
}

func (m *MovingPlatform) BeginRewind() { m.dx = 0 }
func (m *MovingPlatform) EndRewind()   {}

func (m *MovingPlatform) CaptureState() rewind.Snapshot {
	s := rewind.NewSnapshot(0, mgl64.Vec3{m.box.X, m.box.Y, 0}, mgl64.QuatIdent())
	s.SetInt(keyDir, m.dir)
	return s
}

func (m *MovingPlatform) ApplyState(s rewind.Snapshot) {
	m.box.X, m.box.Y = s.Position.X(), s.Position.Y()
	m.dir = s.Extras.Int(keyDir, m.dir)
}

// Box returns the platform bounds.
func (m *MovingPlatform) Box() core.Box { return m.box }

// Update moves the platform, reversing in front of solid tiles.
func (m *MovingPlatform) Update(level *Level, dt float64) {
	step := float64(m.dir) * platformSpeed * dt
	next := m.box.Translate(step, 0)

	x0, y0, x1, y1 := next.Cells()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if level.Solid(x, y) {
				m.dir = -m.dir
				m.dx = 0
				return
			}
		}
	}
	m.box = next
	m.dx = step
}

// Carry lands a falling body on top of the platform and moves a body
// already standing on it along with the platform.
func (m *MovingPlatform) Carry(b *Body, prevBottom float64) {
	if b.Vel[1] < 0 || b.Box.Right() <= m.box.X || b.Box.X >= m.box.Right() {
		return
	}
	top := m.box.Y
	if prevBottom > top+1e-6 || b.Box.Bottom() < top {
		return
	}
	b.Box.Y = top - b.Box.H
	b.Box.X += m.dx
	b.Vel[1] = 0
	b.OnGround = true
}
