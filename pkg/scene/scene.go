// Package scene holds the in-memory scene graph the integrator renders
// against: an ordered list of triangle-mesh nodes (each owning a private BVH),
// an ordered material list, and a single camera.
package scene

import (
	"math"

	"github.com/pkg/errors"

	"github.com/kestrelrender/tracecore/pkg/bvh"
	"github.com/kestrelrender/tracecore/pkg/geometry"
	"github.com/kestrelrender/tracecore/pkg/vecmath"
)

// Sentinel errors returned by Scene and Camera construction.
var (
	ErrEmptyScene    = errors.New("scene: no nodes")
	ErrInvalidCamera = errors.New("scene: invalid camera")
)

// Material is the unified metallic-roughness material evaluated by the BRDF.
type Material struct {
	Albedo    vecmath.Vector3
	Emission  vecmath.Vector3
	Metallic  float32
	Roughness float32
}

// Camera is a pinhole camera. Target must differ from Pos, and Up must not be
// collinear with the forward direction.
type Camera struct {
	Pos         vecmath.Vector3
	Target      vecmath.Vector3
	Up          vecmath.Vector3
	FovRadians  float32
	AspectRatio float32

	forward, right, up vecmath.Vector3
	halfHeight         float32
	halfWidth          float32
}

// NewCamera validates and precomputes the camera's orthonormal basis.
func NewCamera(pos, target, up vecmath.Vector3, fovRadians, aspectRatio float32) (Camera, error) {
	c := Camera{Pos: pos, Target: target, Up: up, FovRadians: fovRadians, AspectRatio: aspectRatio}

	forward := target.Sub(pos)
	if forward.Length() <= vecmath.Eps {
		return Camera{}, errors.Wrap(ErrInvalidCamera, "target coincides with position")
	}
	forward = forward.Normalize()

	right := forward.Cross(up)
	if right.Length() <= vecmath.Eps {
		return Camera{}, errors.Wrap(ErrInvalidCamera, "up is collinear with forward")
	}
	right = right.Normalize()

	c.forward = forward
	c.right = right
	c.up = right.Cross(forward).Normalize()

	c.halfHeight = float32(math.Tan(float64(fovRadians) * 0.5))
	c.halfWidth = c.halfHeight * aspectRatio
	return c, nil
}

// RayThrough constructs a camera ray for normalized screen coordinates
// s, t in [0,1], with (0,0) at the bottom-left of the image plane.
func (c Camera) RayThrough(s, t float32) vecmath.Ray {
	x := (2*s - 1) * c.halfWidth
	y := (2*t - 1) * c.halfHeight
	dir := c.forward.Add(c.right.Mul(x)).Add(c.up.Mul(y)).Normalize()
	return vecmath.NewRay(c.Pos, dir)
}

// Node is a named group of triangles sharing one material index, with its own
// private BVH and bounding box.
type Node struct {
	Name      string
	MatIndex  int
	Triangles []geometry.Triangle

	bbox geometry.AABB
	tree *bvh.BVH
}

// NewNode builds a node and its BVH from a set of world-space triangles.
func NewNode(name string, triangles []geometry.Triangle, matIndex int) Node {
	n := Node{Name: name, MatIndex: matIndex, Triangles: triangles}
	n.rebuild()
	return n
}

func (n *Node) rebuild() {
	box := geometry.EmptyAABB()
	for _, tri := range n.Triangles {
		box = box.GrowTo(tri.BoundingBox())
	}
	n.bbox = box
	n.tree = bvh.Build(n.Triangles)
}

// BoundingBox returns the node's world-space bounding box.
func (n Node) BoundingBox() geometry.AABB { return n.bbox }

// Hit intersects ray against the node's BVH.
func (n Node) Hit(ray vecmath.Ray, tMin, tMax float32) (geometry.TriangleHit, bool) {
	return n.tree.Hit(ray, tMin, tMax)
}

// Translate shifts every triangle in the node by delta and rebuilds its BVH
// and bounding box. Per SPEC_FULL.md §4.D this is the only mutation that
// requires a rebuild.
func (n *Node) Translate(delta vecmath.Vector3) {
	for i := range n.Triangles {
		tri := n.Triangles[i]
		var na, nb, nc vecmath.Vector3
		if tri.HasNormals {
			na, nb, nc = tri.NA, tri.NB, tri.NC
		}
		moved := geometry.NewSmoothTriangle(
			tri.A.Add(delta), tri.B.Add(delta), tri.C.Add(delta),
			na, nb, nc, tri.MatIndex,
		)
		moved.HasNormals = tri.HasNormals
		n.Triangles[i] = moved
	}
	n.rebuild()
}

// Scene is an ordered list of nodes, an ordered list of materials, and one
// camera. Every node's MatIndex must index into Materials.
type Scene struct {
	Nodes     []Node
	Materials []Material
	Camera    Camera
}

// New validates and constructs a scene.
func New(nodes []Node, materials []Material, camera Camera) (*Scene, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyScene
	}
	for _, n := range nodes {
		if n.MatIndex < 0 || n.MatIndex >= len(materials) {
			return nil, errors.Errorf("scene: node %q references out-of-range material index %d", n.Name, n.MatIndex)
		}
	}
	return &Scene{Nodes: nodes, Materials: materials, Camera: camera}, nil
}

// Hit is the result of a top-level scene intersection.
type Hit struct {
	T        float32
	Point    vecmath.Vector3
	Normal   vecmath.Vector3
	Material Material
}

// Intersect loops over nodes, slab-testing each node's bounding box against
// the current best closestT before descending into its BVH. Returns
// closestT == tMax on a miss; ok reports whether any node was hit.
func (s *Scene) Intersect(ray vecmath.Ray, tMin, tMax float32) (Hit, bool) {
	closestT := tMax
	best := Hit{T: tMax}
	found := false

	for i := range s.Nodes {
		node := &s.Nodes[i]
		if hit, _ := node.BoundingBox().Hit(ray, tMin, closestT); !hit {
			continue
		}
		if th, ok := node.Hit(ray, tMin, closestT); ok {
			closestT = th.T
			best = Hit{T: th.T, Point: th.Point, Normal: th.Normal, Material: s.Materials[node.MatIndex]}
			found = true
		}
	}

	return best, found
}

// TranslateNode shifts a node's geometry and rebuilds its BVH.
func (s *Scene) TranslateNode(nodeIdx int, delta vecmath.Vector3) error {
	if nodeIdx < 0 || nodeIdx >= len(s.Nodes) {
		return errors.Errorf("scene: node index %d out of range", nodeIdx)
	}
	s.Nodes[nodeIdx].Translate(delta)
	return nil
}

// SetNodeMaterial reassigns a node's material index. No BVH rebuild is
// required since geometry is unchanged.
func (s *Scene) SetNodeMaterial(nodeIdx, matIdx int) error {
	if nodeIdx < 0 || nodeIdx >= len(s.Nodes) {
		return errors.Errorf("scene: node index %d out of range", nodeIdx)
	}
	if matIdx < 0 || matIdx >= len(s.Materials) {
		return errors.Errorf("scene: material index %d out of range", matIdx)
	}
	s.Nodes[nodeIdx].MatIndex = matIdx
	return nil
}

// SetMaterial replaces a material definition in place.
func (s *Scene) SetMaterial(matIdx int, mat Material) error {
	if matIdx < 0 || matIdx >= len(s.Materials) {
		return errors.Errorf("scene: material index %d out of range", matIdx)
	}
	s.Materials[matIdx] = mat
	return nil
}
