// Package geometry implements the primitive shapes and bounding volumes the BVH
// operates on: triangles, axis-aligned bounding boxes, and the ray/primitive tests.
package geometry

import (
	"math"

	"github.com/kestrelrender/tracecore/pkg/vecmath"
)

// AABB is an axis-aligned bounding box. The zero value is not the empty box; use
// EmptyAABB to get a box that is a correct identity element for GrowTo.
type AABB struct {
	Min vecmath.Vector3
	Max vecmath.Vector3
}

// EmptyAABB returns the empty box (Min = +Inf, Max = -Inf) so that GrowTo is a
// correct monoid: growing the empty box by any point or box yields that point or box.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: vecmath.NewVector3(inf, inf, inf),
		Max: vecmath.NewVector3(-inf, -inf, -inf),
	}
}

// AABBFromPoints returns the smallest AABB containing all given points.
func AABBFromPoints(points ...vecmath.Vector3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.GrowToPoint(p)
	}
	return box
}

// GrowToPoint returns the box expanded (if necessary) to contain p.
func (b AABB) GrowToPoint(p vecmath.Vector3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// GrowTo returns the box expanded (if necessary) to contain o. GrowTo is associative
// and commutative, and GrowTo applied to the empty box preserves the other operand.
func (b AABB) GrowTo(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() vecmath.Vector3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() vecmath.Vector3 {
	return b.Max.Sub(b.Min)
}

// SurfaceArea returns the total surface area of the box.
func (b AABB) SurfaceArea() float32 {
	s := b.Size()
	return 2 * (s[0]*s[1] + s[1]*s[2] + s[2]*s[0])
}

// LongestAxis returns the index (0=X, 1=Y, 2=Z) of the box's longest extent.
func (b AABB) LongestAxis() int {
	s := b.Size()
	if s[0] > s[1] && s[0] > s[2] {
		return 0
	}
	if s[1] > s[2] {
		return 1
	}
	return 2
}

// IsValid reports whether Min <= Max on every axis.
func (b AABB) IsValid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Hit performs the slab test against the ray, returning whether the ray intersects
// the box within [tMin, tMax], and the entry distance tHit (meaningful only on a hit).
func (b AABB) Hit(ray vecmath.Ray, tMin, tMax float32) (hit bool, tHit float32) {
	if !b.IsValid() {
		return false, 0
	}
	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin[axis]
		direction := ray.Direction[axis]

		if direction > -vecmath.Eps && direction < vecmath.Eps {
			if origin < b.Min[axis] || origin > b.Max[axis] {
				return false, 0
			}
			continue
		}

		invD := 1 / direction
		t0 := (b.Min[axis] - origin) * invD
		t1 := (b.Max[axis] - origin) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax < tMin {
			return false, 0
		}
	}
	return true, tMin
}
