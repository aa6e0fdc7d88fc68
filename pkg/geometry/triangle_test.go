package geometry

import (
	"testing"

	"github.com/kestrelrender/tracecore/pkg/vecmath"
)

func TestTriangle_Hit_SpecExample(t *testing.T) {
	// Triangle at z=0 per SPEC_FULL.md §8: (0,0,0),(1,0,0),(0,1,0), ray
	// origin=(0.25,0.25,1), direction=(0,0,-1). Expect a hit at t=1.
	tri := NewTriangle(
		vecmath.NewVector3(0, 0, 0),
		vecmath.NewVector3(1, 0, 0),
		vecmath.NewVector3(0, 1, 0),
		0,
	)
	ray := vecmath.NewRay(vecmath.NewVector3(0.25, 0.25, 1), vecmath.NewVector3(0, 0, -1))

	hit, ok := tri.Hit(ray, 0.001, 1000)
	if !ok {
		t.Fatalf("expected hit")
	}
	if d := hit.T - 1.0; d > 1e-4 || d < -1e-4 {
		t.Errorf("expected t=1, got %f", hit.T)
	}
}

func TestTriangle_Hit_OutsideEdges(t *testing.T) {
	tri := NewTriangle(
		vecmath.NewVector3(0, 0, 0),
		vecmath.NewVector3(1, 0, 0),
		vecmath.NewVector3(0, 1, 0),
		0,
	)

	tests := []struct {
		name      string
		origin    vecmath.Vector3
		shouldHit bool
	}{
		{"center", vecmath.NewVector3(0.25, 0.25, 1), true},
		{"on edge", vecmath.NewVector3(0.5, 0, 1), true},
		{"outside beyond hypotenuse", vecmath.NewVector3(0.9, 0.9, 1), false},
		{"outside negative x", vecmath.NewVector3(-0.1, 0.2, 1), false},
		{"outside negative y", vecmath.NewVector3(0.2, -0.1, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := vecmath.NewRay(tt.origin, vecmath.NewVector3(0, 0, -1))
			_, ok := tri.Hit(ray, 0.001, 1000)
			if ok != tt.shouldHit {
				t.Errorf("expected shouldHit=%v, got %v", tt.shouldHit, ok)
			}
		})
	}
}

func TestTriangle_Hit_ParallelRayMisses(t *testing.T) {
	tri := NewTriangle(
		vecmath.NewVector3(0, 0, 0),
		vecmath.NewVector3(1, 0, 0),
		vecmath.NewVector3(0, 1, 0),
		0,
	)
	ray := vecmath.NewRay(vecmath.NewVector3(0.25, 0.25, 1), vecmath.NewVector3(1, 0, 0))
	if _, ok := tri.Hit(ray, 0.001, 1000); ok {
		t.Errorf("expected miss for a ray parallel to the triangle's plane")
	}
}

func TestTriangle_Hit_RespectsTRange(t *testing.T) {
	tri := NewTriangle(
		vecmath.NewVector3(0, 0, 0),
		vecmath.NewVector3(1, 0, 0),
		vecmath.NewVector3(0, 1, 0),
		0,
	)
	ray := vecmath.NewRay(vecmath.NewVector3(0.25, 0.25, 1), vecmath.NewVector3(0, 0, -1))

	if _, ok := tri.Hit(ray, 0.001, 0.5); ok {
		t.Errorf("expected miss: hit at t=1 is beyond tMax=0.5")
	}
	if _, ok := tri.Hit(ray, 2.0, 10.0); ok {
		t.Errorf("expected miss: hit at t=1 is before tMin=2.0")
	}
}

func TestTriangle_BoundingBoxEnclosesVertices(t *testing.T) {
	a := vecmath.NewVector3(-1, 2, 0)
	b := vecmath.NewVector3(3, -1, 5)
	c := vecmath.NewVector3(0, 0, -2)
	tri := NewTriangle(a, b, c, 0)
	box := tri.BoundingBox()

	for _, v := range []vecmath.Vector3{a, b, c} {
		for axis := 0; axis < 3; axis++ {
			if v[axis] < box.Min[axis]-1e-6 || v[axis] > box.Max[axis]+1e-6 {
				t.Errorf("vertex %v not enclosed by bbox %v", v, box)
			}
		}
	}
}

func TestTriangle_DegenerateFallsBackToFaceNormal(t *testing.T) {
	// Colinear vertices: barycentric denominator is ~0, so smooth shading must
	// fall back to the flat face normal instead of dividing by zero.
	a := vecmath.NewVector3(0, 0, 0)
	b := vecmath.NewVector3(1, 0, 0)
	c := vecmath.NewVector3(2, 0, 0)
	tri := NewSmoothTriangle(a, b, c, vecmath.NewVector3(0, 1, 0), vecmath.NewVector3(0, 1, 0), vecmath.NewVector3(0, 1, 0), 0)

	n := tri.shadingNormal(vecmath.NewVector3(1, 0, 0), tri.FaceNormal())
	if n != tri.FaceNormal() {
		t.Errorf("expected fallback to face normal for degenerate triangle, got %v", n)
	}
}
