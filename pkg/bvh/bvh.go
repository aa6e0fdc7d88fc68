// Package bvh implements a flat-array binary bounding volume hierarchy over
// triangles, built by spatial-midpoint median split and traversed with an
// explicit stack.
package bvh

import (
	"github.com/kestrelrender/tracecore/pkg/geometry"
	"github.com/kestrelrender/tracecore/pkg/tlog"
	"github.com/kestrelrender/tracecore/pkg/vecmath"
)

var log = tlog.New("bvh")

// maxDepth bounds the recursive builder; nodes past this depth are forced leaves
// regardless of primitive count.
const maxDepth = 20

// maxStackDepth bounds the explicit traversal stack.
const maxStackDepth = 64

// Node is a 32-byte-aligned flat BVH node. Count > 0 marks a leaf referencing
// primitives [FirstOrChild, FirstOrChild+Count) in the BVH's private array;
// Count == 0 marks an interior node whose children live at FirstOrChild and
// FirstOrChild+1.
type Node struct {
	Box          geometry.AABB
	FirstOrChild uint32
	Count        uint32
}

func (n Node) isLeaf() bool { return n.Count > 0 }

// BVH owns a private, reordered copy of the triangles it was built from.
type BVH struct {
	Nodes      []Node
	Primitives []geometry.Triangle
}

// Build partitions triangles into a flat BVH. The input slice is copied; the
// caller's slice is left untouched.
func Build(triangles []geometry.Triangle) *BVH {
	prims := make([]geometry.Triangle, len(triangles))
	copy(prims, triangles)

	b := &BVH{Primitives: prims}
	if len(prims) == 0 {
		b.Nodes = []Node{{Box: geometry.EmptyAABB(), FirstOrChild: 0, Count: 0}}
		return b
	}

	b.Nodes = make([]Node, 1, 2*len(prims))
	b.buildInto(0, 0, len(prims), 0)

	log.Debugf("built BVH: %d primitives, %d nodes", len(prims), len(b.Nodes))
	return b
}

// buildInto computes the bounding box and, if warranted, the split for
// Primitives[start:end], writing the result into Nodes[nodeIdx]. Child nodes
// are reserved contiguously (FirstOrChild, FirstOrChild+1) before either
// subtree recurses, so every interior node's children sit at known adjacent
// indices regardless of subtree size.
func (b *BVH) buildInto(nodeIdx uint32, start, end, depth int) {
	box := geometry.EmptyAABB()
	for i := start; i < end; i++ {
		box = box.GrowTo(b.Primitives[i].BoundingBox())
	}

	count := end - start
	if count <= 2 || depth > maxDepth {
		b.Nodes[nodeIdx] = Node{Box: box, FirstOrChild: uint32(start), Count: uint32(count)}
		return
	}

	axis := box.LongestAxis()
	extent := box.Size()
	splitPos := box.Min[axis] + extent[axis]*0.5

	mid := partition(b.Primitives[start:end], axis, splitPos) + start
	if mid == start || mid == end {
		b.Nodes[nodeIdx] = Node{Box: box, FirstOrChild: uint32(start), Count: uint32(count)}
		return
	}

	leftIdx := uint32(len(b.Nodes))
	rightIdx := leftIdx + 1
	b.Nodes = append(b.Nodes, Node{}, Node{})

	b.Nodes[nodeIdx] = Node{Box: box, FirstOrChild: leftIdx, Count: 0}

	b.buildInto(leftIdx, start, mid, depth+1)
	b.buildInto(rightIdx, mid, end, depth+1)
}

// partition reorders prims in place so that every element whose centroid is
// left of splitPos along axis comes before every element that isn't, and
// returns the count of left elements.
func partition(prims []geometry.Triangle, axis int, splitPos float32) int {
	i := 0
	j := len(prims) - 1
	for i <= j {
		if prims[i].Center()[axis] < splitPos {
			i++
			continue
		}
		prims[i], prims[j] = prims[j], prims[i]
		j--
	}
	return i
}

// Hit traverses the BVH with an explicit stack and returns the nearest
// triangle intersection, if any, along with the hit distance. A miss reports
// closestT == tMax.
func (b *BVH) Hit(ray vecmath.Ray, tMin, tMax float32) (geometry.TriangleHit, bool) {
	var stack [maxStackDepth]uint32
	sp := 0
	stack[sp] = 0
	sp++

	closestT := tMax
	best := geometry.TriangleHit{T: tMax}
	found := false

	for sp > 0 {
		sp--
		idx := stack[sp]
		node := b.Nodes[idx]

		if hit, _ := node.Box.Hit(ray, tMin, closestT); !hit {
			continue
		}

		if node.isLeaf() {
			for i := node.FirstOrChild; i < node.FirstOrChild+node.Count; i++ {
				if h, ok := b.Primitives[i].Hit(ray, tMin, closestT); ok {
					closestT = h.T
					best = h
					found = true
				}
			}
			continue
		}

		left := node.FirstOrChild
		right := node.FirstOrChild + 1

		_, leftT := b.Nodes[left].Box.Hit(ray, tMin, closestT)
		_, rightT := b.Nodes[right].Box.Hit(ray, tMin, closestT)

		// Push the farther child first so the stack (LIFO) pops the nearer
		// child's subtree first, pruning more of the farther one via closestT.
		if leftT <= rightT {
			stack[sp] = right
			sp++
			stack[sp] = left
			sp++
		} else {
			stack[sp] = left
			sp++
			stack[sp] = right
			sp++
		}
	}

	return best, found
}
