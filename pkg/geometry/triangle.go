package geometry

import "github.com/kestrelrender/tracecore/pkg/vecmath"

// Triangle is a single triangle with optional per-vertex normals for smooth shading
// and an index into the owning scene's material list.
type Triangle struct {
	A, B, C    vecmath.Vector3
	HasNormals bool
	NA, NB, NC vecmath.Vector3
	MatIndex   int

	faceNormal vecmath.Vector3
	bbox       AABB
}

// NewTriangle builds a flat-shaded triangle, precomputing its face normal and bbox.
func NewTriangle(a, b, c vecmath.Vector3, matIndex int) Triangle {
	t := Triangle{A: a, B: b, C: c, MatIndex: matIndex}
	t.faceNormal = b.Sub(a).Cross(c.Sub(a)).Normalize()
	t.bbox = AABBFromPoints(a, b, c)
	return t
}

// NewSmoothTriangle builds a triangle with per-vertex normals for barycentric
// normal interpolation at hit time.
func NewSmoothTriangle(a, b, c, na, nb, nc vecmath.Vector3, matIndex int) Triangle {
	t := NewTriangle(a, b, c, matIndex)
	t.HasNormals = true
	t.NA, t.NB, t.NC = na, nb, nc
	return t
}

// BoundingBox returns the triangle's cached AABB.
func (t Triangle) BoundingBox() AABB {
	return t.bbox
}

// Center returns the triangle's centroid, used by the BVH to choose which side of
// a split a triangle belongs to.
func (t Triangle) Center() vecmath.Vector3 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

// FaceNormal returns the triangle's flat (non-interpolated) normal.
func (t Triangle) FaceNormal() vecmath.Vector3 {
	return t.faceNormal
}

// TriangleHit is the result of a successful ray/triangle intersection.
type TriangleHit struct {
	T        float32
	Point    vecmath.Vector3
	Normal   vecmath.Vector3 // shading normal: barycentric-interpolated, or the face normal on fallback
	MatIndex int
}

// Hit intersects ray against the triangle using the plane/signed-distance method:
// the face plane is solved for t, then three edge cross-product tests confirm the
// hit point lies inside the triangle. Degenerate (colinear) triangles whose
// barycentric denominator is below 1e-8 fall back to the flat face normal.
func (t Triangle) Hit(ray vecmath.Ray, tMin, tMax float32) (TriangleHit, bool) {
	n := t.faceNormal
	denom := ray.Direction.Dot(n)
	if denom > -vecmath.Eps && denom < vecmath.Eps {
		// Ray parallel to the triangle's plane, including a ray lying in the
		// plane: reported as a miss without running the edge test.
		return TriangleHit{}, false
	}

	d := n.Dot(t.A)
	tHit := (d - n.Dot(ray.Origin)) / denom
	if tHit < tMin || tHit > tMax {
		return TriangleHit{}, false
	}

	p := ray.At(tHit)

	e0 := t.B.Sub(t.A)
	e1 := t.C.Sub(t.B)
	e2 := t.A.Sub(t.C)

	c0 := e0.Cross(p.Sub(t.A))
	c1 := e1.Cross(p.Sub(t.B))
	c2 := e2.Cross(p.Sub(t.C))

	if n.Dot(c0) < 0 || n.Dot(c1) < 0 || n.Dot(c2) < 0 {
		return TriangleHit{}, false
	}

	return TriangleHit{
		T:        tHit,
		Point:    p,
		Normal:   t.shadingNormal(p, n),
		MatIndex: t.MatIndex,
	}, true
}

// shadingNormal computes the barycentric-interpolated vertex normal, falling back
// to the flat face normal when the triangle is degenerate (colinear vertices) or
// has no per-vertex normals.
func (t Triangle) shadingNormal(p, faceNormal vecmath.Vector3) vecmath.Vector3 {
	if !t.HasNormals {
		return faceNormal
	}

	v0 := t.B.Sub(t.A)
	v1 := t.C.Sub(t.A)
	v2 := p.Sub(t.A)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if denom > -vecmath.Eps && denom < vecmath.Eps {
		return faceNormal
	}

	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	u := 1 - v - w

	interp := t.NA.Mul(u).Add(t.NB.Mul(v)).Add(t.NC.Mul(w))
	return interp.Normalize()
}
