package platformer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const testDt = 0.02

func boxLevel(t *testing.T) *Level {
	t.Helper()
	level, err := ParseLevel("box", "Box", []string{
		"#.....#",
		"#.....#",
		"#..P..#",
		"#######",
	})
	if err != nil {
		t.Fatalf("ParseLevel() error: %v", err)
	}
	return level
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestBodyLandsOnFloor(t *testing.T) {
	level := boxLevel(t)
	b := NewBody(3.1, 0.5, 0.8, 0.9)

	for range 100 {
		b.Step(level, 60, 24, testDt)
	}

	if !b.OnGround {
		t.Fatal("body should be on the ground")
	}
	if !near(b.Box.Bottom(), 3) {
		t.Errorf("Bottom() = %v, expected 3", b.Box.Bottom())
	}
	if b.Vel[1] != 0 {
		t.Errorf("vertical velocity = %v after landing, expected 0", b.Vel[1])
	}

	// Standing still stays grounded.
	b.Step(level, 60, 24, testDt)
	if !b.OnGround || !near(b.Box.Bottom(), 3) {
		t.Errorf("resting body drifted: bottom=%v ground=%v", b.Box.Bottom(), b.OnGround)
	}
}

func TestBodyStopsAtWall(t *testing.T) {
	level := boxLevel(t)
	b := NewBody(3.1, 2.1, 0.8, 0.9)
	b.Gravity = false
	b.Vel = mgl64.Vec2{9, 0}

	hit := false
	for range 50 {
		b.Step(level, 0, 0, testDt)
		hit = hit || b.HitWall
	}

	if !hit {
		t.Error("HitWall never reported")
	}
	if !near(b.Box.Right(), 6) {
		t.Errorf("Right() = %v, expected 6", b.Box.Right())
	}
	if b.Vel[0] != 0 {
		t.Errorf("horizontal velocity = %v after hitting a wall", b.Vel[0])
	}
}

func TestBodyHitsCeiling(t *testing.T) {
	level := boxLevel(t)
	b := NewBody(3.1, 1.1, 0.8, 0.9)
	b.Gravity = false
	b.Vel = mgl64.Vec2{0, -20}

	b.Step(level, 0, 0, 0.1)
	if !b.HitCeiling {
		t.Error("HitCeiling not reported")
	}
	if !near(b.Box.Y, 0) {
		t.Errorf("Y = %v, expected 0 (top edge of the map)", b.Box.Y)
	}
}

func TestBodyKinematicIgnoresStep(t *testing.T) {
	level := boxLevel(t)
	b := NewBody(3.1, 0.5, 0.8, 0.9)
	b.SetKinematic(true)
	b.Vel = mgl64.Vec2{5, 5}

	b.Step(level, 60, 24, testDt)
	if b.Box.X != 3.1 || b.Box.Y != 0.5 {
		t.Errorf("kinematic body moved to (%v, %v)", b.Box.X, b.Box.Y)
	}
}

func TestBodyPoseRoundTrip(t *testing.T) {
	b := NewBody(0, 0, 1, 1)
	b.SetPose(mgl64.Vec3{2.5, -1, 7}, mgl64.QuatRotate(1.2, mgl64.Vec3{0, 0, 1}))

	if b.Box.X != 2.5 || b.Box.Y != -1 {
		t.Errorf("position = (%v, %v), expected (2.5, -1)", b.Box.X, b.Box.Y)
	}
	if !near(b.Angle, 1.2) {
		t.Errorf("Angle = %v, expected 1.2", b.Angle)
	}

	pos, rot := b.Pose()
	if pos != (mgl64.Vec3{2.5, -1, 0}) {
		t.Errorf("Pose() position = %v", pos)
	}
	if !rot.ApproxEqualThreshold(mgl64.QuatRotate(1.2, mgl64.Vec3{0, 0, 1}), 1e-9) {
		t.Errorf("Pose() rotation = %v", rot)
	}
}

func TestBodyOverlaps(t *testing.T) {
	level, err := ParseLevel("spikes", "Spikes", []string{"P.^.", "####"})
	if err != nil {
		t.Fatalf("ParseLevel() error: %v", err)
	}
	spikes := func(tile Tile) bool { return tile == TileSpikes }

	if NewBody(0.1, 0.1, 0.8, 0.9).Overlaps(level, spikes) {
		t.Error("body at x=0 should not touch spikes")
	}
	if !NewBody(1.5, 0.1, 0.8, 0.9).Overlaps(level, spikes) {
		t.Error("body spanning x=1..2 should touch spikes")
	}
}
