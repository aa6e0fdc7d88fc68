package vecmath

import "testing"

func TestIdentity_TransformPoint(t *testing.T) {
	v := NewVector3(1, 2, 3)
	if got := Identity().TransformPoint(v); !approxEqual(got, v, 1e-6) {
		t.Errorf("expected %v, got %v", v, got)
	}
}

func TestIdentity_TransformVector(t *testing.T) {
	v := NewVector3(1, 2, 3)
	if got := Identity().TransformVector(v); !approxEqual(got, v, 1e-6) {
		t.Errorf("expected %v, got %v", v, got)
	}
}

func TestTranslation_TransformPointVsVector(t *testing.T) {
	m := Translation(NewVector3(10, 0, 0))
	v := NewVector3(1, 2, 3)

	if got := m.TransformPoint(v); !approxEqual(got, NewVector3(11, 2, 3), 1e-6) {
		t.Errorf("TransformPoint should include translation, got %v", got)
	}
	if got := m.TransformVector(v); !approxEqual(got, v, 1e-6) {
		t.Errorf("TransformVector should ignore translation, got %v", got)
	}
}

func TestQuatRotation_IsOrthogonal(t *testing.T) {
	tests := []struct {
		name  string
		axis  Vector3
		angle float32
	}{
		{"90 about Z", NewVector3(0, 0, 1), Pi / 2},
		{"90 about Y", NewVector3(0, 1, 0), Pi / 2},
		{"45 about X", NewVector3(1, 0, 0), Pi / 4},
		{"arbitrary axis", NewVector3(1, 1, 1), 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QuatFromAxisAngle(tt.axis, tt.angle)
			m := q.Mat4()

			v := NewVector3(0.3, -0.7, 0.5)
			w := NewVector3(-0.2, 0.9, 0.1)

			rv := m.TransformVector(v)
			rw := m.TransformVector(w)

			const tol = 1e-5
			if d := rv.Dot(rw) - v.Dot(w); d > tol || d < -tol {
				t.Errorf("rotation not orthogonal: dot before %f after %f", v.Dot(w), rv.Dot(rw))
			}
			if d := rv.Length() - v.Length(); d > tol || d < -tol {
				t.Errorf("rotation changed length: before %f after %f", v.Length(), rv.Length())
			}
		})
	}
}

func TestQuatIdentity_NoRotation(t *testing.T) {
	v := NewVector3(1, 2, 3)
	m := QuatIdentity().Mat4()
	if got := m.TransformVector(v); !approxEqual(got, v, 1e-5) {
		t.Errorf("expected unchanged vector, got %v", got)
	}
}

func TestTRS_TranslatesRotatedScale(t *testing.T) {
	m := TRS(NewVector3(1, 0, 0), QuatFromAxisAngle(NewVector3(0, 0, 1), Pi/2), NewVector3(2, 2, 2))
	// (1,0,0) scaled by 2 -> (2,0,0), rotated 90deg about Z -> (0,2,0), translated -> (1,2,0)
	got := m.TransformPoint(NewVector3(1, 0, 0))
	if !approxEqual(got, NewVector3(1, 2, 0), 1e-4) {
		t.Errorf("expected (1,2,0), got %v", got)
	}
}
