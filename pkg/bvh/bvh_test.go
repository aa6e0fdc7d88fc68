package bvh

import (
	"math/rand"
	"testing"

	"github.com/kestrelrender/tracecore/pkg/geometry"
	"github.com/kestrelrender/tracecore/pkg/vecmath"
)

func gridTriangles(n int) []geometry.Triangle {
	tris := make([]geometry.Triangle, n)
	for i := 0; i < n; i++ {
		x := float32(i) * 2
		tris[i] = geometry.NewTriangle(
			vecmath.NewVector3(x, 0, 0),
			vecmath.NewVector3(x+1, 0, 0),
			vecmath.NewVector3(x, 1, 0),
			0,
		)
	}
	return tris
}

func TestBuild_EmptySceneMisses(t *testing.T) {
	b := Build(nil)
	ray := vecmath.NewRay(vecmath.NewVector3(0, 0, 5), vecmath.NewVector3(0, 0, -1))
	if _, ok := b.Hit(ray, 0.001, 1000); ok {
		t.Errorf("expected miss against an empty BVH")
	}
}

func TestBuild_TwoOrFewerPrimitivesStaysLeaf(t *testing.T) {
	b := Build(gridTriangles(2))
	if len(b.Nodes) != 1 {
		t.Errorf("expected a single leaf node for 2 primitives, got %d nodes", len(b.Nodes))
	}
	if !b.Nodes[0].isLeaf() {
		t.Errorf("expected root to be a leaf")
	}
}

func TestBuild_SplitsLargeSceneIntoInteriorNodes(t *testing.T) {
	b := Build(gridTriangles(20))

	leaves, interior := 0, 0
	for _, n := range b.Nodes {
		if n.isLeaf() {
			leaves++
		} else {
			interior++
		}
	}
	if interior == 0 {
		t.Errorf("expected at least one interior node for 20 spatially separated triangles")
	}
	if leaves == 0 {
		t.Errorf("expected at least one leaf node")
	}
}

func TestBuild_LeafEnclosesItsPrimitives(t *testing.T) {
	b := Build(gridTriangles(20))

	for _, n := range b.Nodes {
		if !n.isLeaf() {
			continue
		}
		for i := n.FirstOrChild; i < n.FirstOrChild+n.Count; i++ {
			tbox := b.Primitives[i].BoundingBox()
			for axis := 0; axis < 3; axis++ {
				if tbox.Min[axis] < n.Box.Min[axis]-1e-4 || tbox.Max[axis] > n.Box.Max[axis]+1e-4 {
					t.Fatalf("leaf box %v does not enclose primitive box %v", n.Box, tbox)
				}
			}
		}
	}
}

func TestBuild_InteriorChildrenAreAdjacent(t *testing.T) {
	b := Build(gridTriangles(20))
	for _, n := range b.Nodes {
		if n.isLeaf() {
			continue
		}
		left := n.FirstOrChild
		right := n.FirstOrChild + 1
		if int(right) >= len(b.Nodes) {
			t.Fatalf("interior node's right child index %d out of range (%d nodes)", right, len(b.Nodes))
		}
		_ = left
	}
}

// bruteForceHit linearly tests every triangle and returns the closest hit.
func bruteForceHit(tris []geometry.Triangle, ray vecmath.Ray, tMin, tMax float32) (geometry.TriangleHit, bool) {
	closest := tMax
	var best geometry.TriangleHit
	found := false
	for _, tri := range tris {
		if h, ok := tri.Hit(ray, tMin, closest); ok {
			closest = h.T
			best = h
			found = true
		}
	}
	return best, found
}

func TestHit_MatchesBruteForceOnRandomScene(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tris := make([]geometry.Triangle, 200)
	for i := range tris {
		cx := float32(rng.Float64()*40 - 20)
		cy := float32(rng.Float64()*40 - 20)
		cz := float32(rng.Float64()*40 - 20)
		tris[i] = geometry.NewTriangle(
			vecmath.NewVector3(cx, cy, cz),
			vecmath.NewVector3(cx+1, cy, cz),
			vecmath.NewVector3(cx, cy+1, cz),
			0,
		)
	}
	b := Build(tris)

	for i := 0; i < 100; i++ {
		origin := vecmath.NewVector3(
			float32(rng.Float64()*60-30),
			float32(rng.Float64()*60-30),
			float32(rng.Float64()*60-30),
		)
		dir := vecmath.NewVector3(
			float32(rng.Float64()*2-1),
			float32(rng.Float64()*2-1),
			float32(rng.Float64()*2-1),
		).Normalize()
		ray := vecmath.NewRay(origin, dir)

		wantHit, wantOK := bruteForceHit(tris, ray, 0.001, 1000)
		gotHit, gotOK := b.Hit(ray, 0.001, 1000)

		if gotOK != wantOK {
			t.Fatalf("ray %d: expected hit=%v, got %v", i, wantOK, gotOK)
		}
		if wantOK && (gotHit.T-wantHit.T > 1e-3 || gotHit.T-wantHit.T < -1e-3) {
			t.Errorf("ray %d: expected t=%f, got %f", i, wantHit.T, gotHit.T)
		}
	}
}

func TestHit_RespectsTRangeReturningTMaxOnMiss(t *testing.T) {
	b := Build(gridTriangles(5))
	ray := vecmath.NewRay(vecmath.NewVector3(0.25, 0.25, 5), vecmath.NewVector3(0, 0, -1))

	hit, ok := b.Hit(ray, 0.001, 1.0)
	if ok {
		t.Errorf("expected miss: triangle sits beyond tMax=1.0")
	}
	if hit.T != 1.0 {
		t.Errorf("expected a miss to report t == tMax (1.0), got %f", hit.T)
	}
}
