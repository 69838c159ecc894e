package rewind

import "github.com/go-gl/mathgl/mgl64"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindVector
	KindEnum
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindVector:
		return "vector"
	case KindEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// Value is a small tagged union for participant-defined snapshot fields.
// The zero Value is KindInvalid and reads as the caller's default.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	v    mgl64.Vec3
}

// BoolValue wraps a flag (facing flip, grounded, pooled-object active).
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue wraps an integer counter or index.
func IntValue(i int) Value { return Value{kind: KindInt, i: int64(i)} }

// FloatValue wraps a continuous scalar.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// VectorValue wraps a 3-component vector.
func VectorValue(v mgl64.Vec3) Value { return Value{kind: KindVector, v: v} }

// EnumValue wraps a categorical state such as an AI phase.
func EnumValue(e int) Value { return Value{kind: KindEnum, i: int64(e)} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Extras is the open-ended side table attached to a Snapshot.
// Reads never fail: a missing key or a different kind yields the default.
type Extras map[string]Value

// Has reports whether key is present.
func (e Extras) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Bool returns the flag stored under key, or def.
func (e Extras) Bool(key string, def bool) bool {
	if v, ok := e[key]; ok && v.kind == KindBool {
		return v.b
	}
	return def
}

// Int returns the integer stored under key, or def.
func (e Extras) Int(key string, def int) int {
	if v, ok := e[key]; ok && v.kind == KindInt {
		return int(v.i)
	}
	return def
}

// Float returns the scalar stored under key, or def. Int values widen.
func (e Extras) Float(key string, def float64) float64 {
	v, ok := e[key]
	if !ok {
		return def
	}
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return float64(v.i)
	}
	return def
}

// Vector returns the vector stored under key, or def.
func (e Extras) Vector(key string, def mgl64.Vec3) mgl64.Vec3 {
	if v, ok := e[key]; ok && v.kind == KindVector {
		return v.v
	}
	return def
}

// Enum returns the categorical value stored under key, or def.
func (e Extras) Enum(key string, def int) int {
	if v, ok := e[key]; ok && v.kind == KindEnum {
		return int(v.i)
	}
	return def
}

// Clone returns an independent copy. A nil table clones to nil.
func (e Extras) Clone() Extras {
	if e == nil {
		return nil
	}
	out := make(Extras, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Blend selects how one extras key is interpolated.
type Blend uint8

const (
	// BlendSnap takes a's value below t = 0.5 and b's at or above it.
	BlendSnap Blend = iota
	// BlendFloat linearly interpolates a Float (or Int) value.
	BlendFloat
	// BlendVector linearly interpolates a Vector value.
	BlendVector
)

// BlendPolicy maps extras keys to their interpolation mode. Keys not listed
// snap.
type BlendPolicy map[string]Blend

// PolicyProvider is implemented by participants whose extras carry
// continuous values worth blending. The policy is read once at registration.
type PolicyProvider interface {
	BlendPolicy() BlendPolicy
}
