package rewind

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Snapshot is one recorded instant of a participant's state.
// Applying a snapshot fully determines the participant's observable state;
// velocity is the exception and is restored when rewinding ends.
type Snapshot struct {
	Timestamp float64 // Clock value when captured

	Position mgl64.Vec3
	Rotation mgl64.Quat

	LinearVelocity  mgl64.Vec2 // Zero without a physics body
	AngularVelocity float64

	Vitality int // Health-like slot, 0 if unused

	AnimStateRef int     // Opaque animation state reference
	AnimPhase    float64 // Normalized playback position within AnimStateRef

	Extras Extras
}

// NewSnapshot creates a transform-only snapshot.
func NewSnapshot(timestamp float64, position mgl64.Vec3, rotation mgl64.Quat) Snapshot {
	return Snapshot{
		Timestamp: timestamp,
		Position:  position,
		Rotation:  rotation,
	}
}

// NewPhysicsSnapshot creates a snapshot with a pose and motion state.
func NewPhysicsSnapshot(timestamp float64, position mgl64.Vec3, rotation mgl64.Quat, velocity mgl64.Vec2, angular float64) Snapshot {
	return Snapshot{
		Timestamp:       timestamp,
		Position:        position,
		Rotation:        rotation,
		LinearVelocity:  velocity,
		AngularVelocity: angular,
	}
}

// Set stores an extras value, allocating the table on first use.
func (s *Snapshot) Set(key string, v Value) {
	if s.Extras == nil {
		s.Extras = make(Extras)
	}
	s.Extras[key] = v
}

// SetBool stores a flag in extras.
func (s *Snapshot) SetBool(key string, b bool) { s.Set(key, BoolValue(b)) }

// SetInt stores an integer in extras.
func (s *Snapshot) SetInt(key string, i int) { s.Set(key, IntValue(i)) }

// SetFloat stores a scalar in extras.
func (s *Snapshot) SetFloat(key string, f float64) { s.Set(key, FloatValue(f)) }

// SetVector stores a vector in extras.
func (s *Snapshot) SetVector(key string, v mgl64.Vec3) { s.Set(key, VectorValue(v)) }

// SetEnum stores a categorical value in extras.
func (s *Snapshot) SetEnum(key string, e int) { s.Set(key, EnumValue(e)) }

// Lerp interpolates from a to b by t in [0,1]; t outside the range is
// clamped.
//
// Continuous fields blend: timestamp, position, velocities and vitality
// (rounded) lerp, rotation slerps. Categorical fields snap at t = 0.5:
// AnimStateRef and the extras table take a's value below and b's at or
// above. AnimPhase follows its state reference and only blends when both
// sides play the same state. Extras keys listed in policy are blended on
// top of the snapped table when both sides carry a compatible value.
func Lerp(a, b Snapshot, t float64, policy BlendPolicy) Snapshot {
	t = clamp01(t)
	if t == 0 {
		a.Extras = a.Extras.Clone()
		return a
	}
	if t == 1 {
		b.Extras = b.Extras.Clone()
		return b
	}

	out := Snapshot{
		Timestamp:       lerpf(a.Timestamp, b.Timestamp, t),
		Position:        lerpVec3(a.Position, b.Position, t),
		Rotation:        mgl64.QuatSlerp(a.Rotation, b.Rotation, t),
		LinearVelocity:  lerpVec2(a.LinearVelocity, b.LinearVelocity, t),
		AngularVelocity: lerpf(a.AngularVelocity, b.AngularVelocity, t),
		Vitality:        int(math.Round(lerpf(float64(a.Vitality), float64(b.Vitality), t))),
	}

	snapped := a
	if t >= 0.5 {
		snapped = b
	}
	out.AnimStateRef = snapped.AnimStateRef
	if a.AnimStateRef == b.AnimStateRef {
		out.AnimPhase = lerpf(a.AnimPhase, b.AnimPhase, t)
	} else {
		out.AnimPhase = snapped.AnimPhase
	}

	out.Extras = snapped.Extras.Clone()
	for key, mode := range policy {
		blendExtra(&out, a.Extras, b.Extras, key, mode, t)
	}
	return out
}

// blendExtra overwrites out's key with a blend of a and b when both carry a
// value of the kind the mode expects.
func blendExtra(out *Snapshot, a, b Extras, key string, mode Blend, t float64) {
	va, okA := a[key]
	vb, okB := b[key]
	if !okA || !okB {
		return
	}

	switch mode {
	case BlendFloat:
		if !numeric(va) || !numeric(vb) {
			return
		}
		fa := a.Float(key, 0)
		fb := b.Float(key, 0)
		out.SetFloat(key, lerpf(fa, fb, t))
	case BlendVector:
		if va.kind != KindVector || vb.kind != KindVector {
			return
		}
		out.SetVector(key, lerpVec3(va.v, vb.v, t))
	}
}

func numeric(v Value) bool {
	return v.kind == KindFloat || v.kind == KindInt
}

func lerpf(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func lerpVec2(a, b mgl64.Vec2, t float64) mgl64.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}
