package vecmath

import "math"

// Mat4 is a column-major 4x4 matrix: element (col, row) lives at m[col*4+row].
type Mat4 [16]float32

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// at returns the element at (col, row).
func (m Mat4) at(col, row int) float32 {
	return m[col*4+row]
}

func (m *Mat4) set(col, row int, v float32) {
	m[col*4+row] = v
}

// Translation builds a translation matrix.
func Translation(t Vector3) Mat4 {
	m := Identity()
	m.set(3, 0, t[0])
	m.set(3, 1, t[1])
	m.set(3, 2, t[2])
	return m
}

// Scale builds a scale matrix.
func Scale(s Vector3) Mat4 {
	m := Identity()
	m.set(0, 0, s[0])
	m.set(1, 1, s[1])
	m.set(2, 2, s[2])
	return m
}

// Mul returns m * o (applies o first, then m, to a column vector).
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m.at(k, row) * o.at(col, k)
			}
			r.set(col, row, sum)
		}
	}
	return r
}

// TransformPoint applies the full affine transform, including translation.
func (m Mat4) TransformPoint(v Vector3) Vector3 {
	x := m.at(0, 0)*v[0] + m.at(1, 0)*v[1] + m.at(2, 0)*v[2] + m.at(3, 0)
	y := m.at(0, 1)*v[0] + m.at(1, 1)*v[1] + m.at(2, 1)*v[2] + m.at(3, 1)
	z := m.at(0, 2)*v[0] + m.at(1, 2)*v[1] + m.at(2, 2)*v[2] + m.at(3, 2)
	return Vector3{x, y, z}
}

// TransformVector applies the linear part only, ignoring translation.
func (m Mat4) TransformVector(v Vector3) Vector3 {
	x := m.at(0, 0)*v[0] + m.at(1, 0)*v[1] + m.at(2, 0)*v[2]
	y := m.at(0, 1)*v[0] + m.at(1, 1)*v[1] + m.at(2, 1)*v[2]
	z := m.at(0, 2)*v[0] + m.at(1, 2)*v[1] + m.at(2, 2)*v[2]
	return Vector3{x, y, z}
}

// Quat is a unit quaternion representing a rotation.
type Quat struct {
	V Vector3
	W float32
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{V: Vector3{}, W: 1}
}

// QuatFromAxisAngle builds a quaternion rotating by angle radians around axis.
func QuatFromAxisAngle(axis Vector3, angle float32) Quat {
	s := float32(math.Sin(float64(angle) * 0.5))
	c := float32(math.Cos(float64(angle) * 0.5))
	return Quat{V: axis.Normalize().Mul(s), W: c}
}

// Mat4 returns the homogeneous rotation matrix corresponding to the quaternion,
// using the canonical formula with pre-squared terms.
func (q Quat) Mat4() Mat4 {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.W
	x2, y2, z2 := x*x, y*y, z*z

	m := Identity()
	m.set(0, 0, 1-2*y2-2*z2)
	m.set(1, 0, 2*x*y-2*w*z)
	m.set(2, 0, 2*x*z+2*w*y)

	m.set(0, 1, 2*x*y+2*w*z)
	m.set(1, 1, 1-2*x2-2*z2)
	m.set(2, 1, 2*y*z-2*w*x)

	m.set(0, 2, 2*x*z-2*w*y)
	m.set(1, 2, 2*y*z+2*w*x)
	m.set(2, 2, 1-2*x2-2*y2)

	return m
}

// TRS composes the world matrix for a node from a translation, rotation, and scale:
// the result is T * R * S (translation of rotated scale).
func TRS(translation Vector3, rotation Quat, scale Vector3) Mat4 {
	return Translation(translation).Mul(rotation.Mat4()).Mul(Scale(scale))
}
