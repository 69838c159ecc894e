package rewind

import "github.com/go-gl/mathgl/mgl64"

// Body is the physics surface BodyTrack drives.
type Body interface {
	Pose() (mgl64.Vec3, mgl64.Quat)
	SetPose(position mgl64.Vec3, rotation mgl64.Quat)
	Velocity() (linear mgl64.Vec2, angular float64)
	SetVelocity(linear mgl64.Vec2, angular float64)
	Kinematic() bool
	SetKinematic(kinematic bool)
}

// BodyTrack records and restores a physics body. Participants embed or
// hold one and forward their hooks to it.
//
// During a rewind the body is made kinematic with zero velocity, and only
// the pose is applied. When the rewind ends the original body mode is
// restored and a dynamic body resumes with the velocity of the last
// applied snapshot.
type BodyTrack struct {
	body         Body
	wasKinematic bool
	last         Snapshot
	hasLast      bool
}

// NewBodyTrack creates a track for body.
func NewBodyTrack(body Body) *BodyTrack {
	return &BodyTrack{body: body}
}

// Begin freezes the body.
func (t *BodyTrack) Begin() {
	t.wasKinematic = t.body.Kinematic()
	t.hasLast = false
	t.body.SetKinematic(true)
	t.body.SetVelocity(mgl64.Vec2{}, 0)
}

// End unfreezes the body and restores velocity from the last applied
// snapshot.
func (t *BodyTrack) End() {
	t.body.SetKinematic(t.wasKinematic)
	if !t.wasKinematic && t.hasLast {
		t.body.SetVelocity(t.last.LinearVelocity, t.last.AngularVelocity)
	}
}

// Capture writes pose and motion into s.
func (t *BodyTrack) Capture(s *Snapshot) {
	s.Position, s.Rotation = t.body.Pose()
	s.LinearVelocity, s.AngularVelocity = t.body.Velocity()
}

// Apply restores the pose of s and remembers s for End.
func (t *BodyTrack) Apply(s Snapshot) {
	t.body.SetPose(s.Position, s.Rotation)
	t.last = s
	t.hasLast = true
}

// Animator is the animation surface AnimTrack drives.
type Animator interface {
	State() (ref int, phase float64)
	Play(ref int, phase float64)
	Speed() float64
	SetSpeed(speed float64)
}

// AnimTrack records and restores animation state. The animator is paused
// for the duration of a rewind.
type AnimTrack struct {
	anim  Animator
	speed float64
}

// NewAnimTrack creates a track for anim.
func NewAnimTrack(anim Animator) *AnimTrack {
	return &AnimTrack{anim: anim}
}

// Begin pauses the animator.
func (t *AnimTrack) Begin() {
	t.speed = t.anim.Speed()
	t.anim.SetSpeed(0)
}

// End restores the animator speed saved by Begin.
func (t *AnimTrack) End() {
	t.anim.SetSpeed(t.speed)
}

// Capture writes the animation state into s.
func (t *AnimTrack) Capture(s *Snapshot) {
	s.AnimStateRef, s.AnimPhase = t.anim.State()
}

// Apply jumps the animator to the state in s.
func (t *AnimTrack) Apply(s Snapshot) {
	t.anim.Play(s.AnimStateRef, s.AnimPhase)
}
