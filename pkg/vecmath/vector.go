// Package vecmath provides the 3-vector, 4x4 matrix, and quaternion math shared
// by every other package in tracecore. Vectors are backed by golang.org/x/image/math/f32
// arrays so the underlying storage is exactly three (or four) packed 32-bit floats.
package vecmath

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Numerical constants used throughout the intersection and shading kernels.
const (
	Pi    = math.Pi
	InvPi = 1.0 / math.Pi
	Eps   = 1e-8
)

// Vector3 is a 3-component vector of 32-bit floats.
type Vector3 f32.Vec3

// Vector4 is a 4-component vector of 32-bit floats, used for homogeneous points/directions.
type Vector4 f32.Vec4

// NewVector3 builds a vector from components.
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{x, y, z}
}

func (v Vector3) X() float32 { return v[0] }
func (v Vector3) Y() float32 { return v[1] }
func (v Vector3) Z() float32 { return v[2] }

// Add returns the componentwise sum.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns the componentwise difference.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Mul returns the vector scaled by a scalar.
func (v Vector3) Mul(s float32) Vector3 {
	return Vector3{v[0] * s, v[1] * s, v[2] * s}
}

// Div returns the vector divided by a scalar.
func (v Vector3) Div(s float32) Vector3 {
	return v.Mul(1 / s)
}

// MulVec returns the componentwise product of two vectors.
func (v Vector3) MulVec(o Vector3) Vector3 {
	return Vector3{v[0] * o[0], v[1] * o[1], v[2] * o[2]}
}

// DivVec returns the componentwise quotient of two vectors.
func (v Vector3) DivVec(o Vector3) Vector3 {
	return Vector3{v[0] / o[0], v[1] / o[1], v[2] / o[2]}
}

// Dot returns the dot product.
func (v Vector3) Dot(o Vector3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the cross product v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Length returns the Euclidean norm.
func (v Vector3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// LengthSquared avoids the square root for comparisons.
func (v Vector3) LengthSquared() float32 {
	return v.Dot(v)
}

// Normalize returns a unit vector in the same direction, or the zero vector if v is zero.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l < Eps {
		return Vector3{}
	}
	return v.Mul(1 / l)
}

// Negate returns -v.
func (v Vector3) Negate() Vector3 {
	return Vector3{-v[0], -v[1], -v[2]}
}

// Min returns the componentwise minimum.
func (v Vector3) Min(o Vector3) Vector3 {
	return Vector3{minF(v[0], o[0]), minF(v[1], o[1]), minF(v[2], o[2])}
}

// Max returns the componentwise maximum.
func (v Vector3) Max(o Vector3) Vector3 {
	return Vector3{maxF(v[0], o[0]), maxF(v[1], o[1]), maxF(v[2], o[2])}
}

// MaxComponent returns the largest of the three components.
func (v Vector3) MaxComponent() float32 {
	return maxF(v[0], maxF(v[1], v[2]))
}

// Clamp clamps every component to [lo, hi].
func (v Vector3) Clamp(lo, hi float32) Vector3 {
	return Vector3{clampF(v[0], lo, hi), clampF(v[1], lo, hi), clampF(v[2], lo, hi)}
}

// Lerp linearly interpolates between a and b by t (not clamped).
func Lerp(a, b Vector3, t float32) Vector3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// LerpF linearly interpolates two scalars by t.
func LerpF(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// Vec4 promotes v to a homogeneous Vector4 with the given w.
func (v Vector3) Vec4(w float32) Vector4 {
	return Vector4{v[0], v[1], v[2], w}
}

// Vec3 drops the w component.
func (v Vector4) Vec3() Vector3 {
	return Vector3{v[0], v[1], v[2]}
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampF(v, lo, hi float32) float32 {
	return maxF(lo, minF(hi, v))
}

// Saturate clamps to [0, 1].
func Saturate(v float32) float32 {
	return clampF(v, 0, 1)
}

// Ray is a parametric ray with a unit-length Direction.
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay constructs a ray; the caller is responsible for normalizing Direction.
func NewRay(origin, direction Vector3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point Origin + t*Direction.
func (r Ray) At(t float32) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
