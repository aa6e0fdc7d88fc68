// Package loader builds scene.Scene values: a handful of procedural demo
// scenes and a PLY mesh reader.
package loader

import (
	"math"

	"github.com/kestrelrender/tracecore/pkg/geometry"
	"github.com/kestrelrender/tracecore/pkg/scene"
	"github.com/kestrelrender/tracecore/pkg/vecmath"
)

// indexedMesh turns a vertex list plus a flat triangle-index list into world
// space triangles under transform xf, sharing matIndex.
func indexedMesh(vertices []vecmath.Vector3, faces []int, xf vecmath.Mat4, matIndex int) []geometry.Triangle {
	tris := make([]geometry.Triangle, 0, len(faces)/3)
	for i := 0; i+2 < len(faces); i += 3 {
		a := xf.TransformPoint(vertices[faces[i]])
		b := xf.TransformPoint(vertices[faces[i+1]])
		c := xf.TransformPoint(vertices[faces[i+2]])
		tris = append(tris, geometry.NewTriangle(a, b, c, matIndex))
	}
	return tris
}

// boxMesh builds the 12 triangles (2 per face) of an axis-aligned box of the
// given size, centered at the origin before xf is applied.
func boxMesh(size vecmath.Vector3, xf vecmath.Mat4, matIndex int) []geometry.Triangle {
	h := size.Mul(0.5)
	vertices := []vecmath.Vector3{
		vecmath.NewVector3(-h.X(), -h.Y(), -h.Z()), // 0
		vecmath.NewVector3(+h.X(), -h.Y(), -h.Z()), // 1
		vecmath.NewVector3(+h.X(), +h.Y(), -h.Z()), // 2
		vecmath.NewVector3(-h.X(), +h.Y(), -h.Z()), // 3
		vecmath.NewVector3(-h.X(), -h.Y(), +h.Z()), // 4
		vecmath.NewVector3(+h.X(), -h.Y(), +h.Z()), // 5
		vecmath.NewVector3(+h.X(), +h.Y(), +h.Z()), // 6
		vecmath.NewVector3(-h.X(), +h.Y(), +h.Z()), // 7
	}
	faces := []int{
		0, 1, 2, 0, 2, 3, // back
		4, 6, 5, 4, 7, 6, // front
		0, 3, 7, 0, 7, 4, // left
		1, 5, 6, 1, 6, 2, // right
		0, 4, 5, 0, 5, 1, // bottom
		3, 2, 6, 3, 6, 7, // top
	}
	return indexedMesh(vertices, faces, xf, matIndex)
}

// quad builds the two triangles of a parallelogram with one corner at origin
// spanned by u and v.
func quad(origin, u, v vecmath.Vector3, matIndex int) []geometry.Triangle {
	a := origin
	b := origin.Add(u)
	c := origin.Add(u).Add(v)
	d := origin.Add(v)
	return []geometry.Triangle{
		geometry.NewTriangle(a, b, c, matIndex),
		geometry.NewTriangle(a, c, d, matIndex),
	}
}

// NewCornellBox builds the classic Cornell box: five 555-unit walls, a
// ceiling light, and a metal and a diffuse box inside.
func NewCornellBox() (*scene.Scene, error) {
	const boxSize = 555

	materials := []scene.Material{
		{Albedo: vecmath.NewVector3(0.73, 0.73, 0.73)}, // 0 white
		{Albedo: vecmath.NewVector3(0.65, 0.05, 0.05)},  // 1 red
		{Albedo: vecmath.NewVector3(0.12, 0.45, 0.15)},  // 2 green
		{Emission: vecmath.NewVector3(15, 15, 15)},      // 3 light
		{Albedo: vecmath.NewVector3(0.8, 0.8, 0.9), Metallic: 1, Roughness: 0.05}, // 4 metal box
		{Albedo: vecmath.NewVector3(0.3, 0.3, 0.8), Roughness: 0.8},               // 5 diffuse box
	}

	var nodes []scene.Node

	floor := quad(vecmath.NewVector3(0, 0, 0), vecmath.NewVector3(boxSize, 0, 0), vecmath.NewVector3(0, 0, boxSize), 0)
	nodes = append(nodes, scene.NewNode("floor", floor, 0))

	ceiling := quad(vecmath.NewVector3(0, boxSize, 0), vecmath.NewVector3(boxSize, 0, 0), vecmath.NewVector3(0, 0, boxSize), 0)
	nodes = append(nodes, scene.NewNode("ceiling", ceiling, 0))

	back := quad(vecmath.NewVector3(0, 0, boxSize), vecmath.NewVector3(boxSize, 0, 0), vecmath.NewVector3(0, boxSize, 0), 0)
	nodes = append(nodes, scene.NewNode("back_wall", back, 0))

	left := quad(vecmath.NewVector3(0, 0, 0), vecmath.NewVector3(0, 0, boxSize), vecmath.NewVector3(0, boxSize, 0), 1)
	nodes = append(nodes, scene.NewNode("left_wall", left, 1))

	right := quad(vecmath.NewVector3(boxSize, 0, 0), vecmath.NewVector3(0, boxSize, 0), vecmath.NewVector3(0, 0, boxSize), 2)
	nodes = append(nodes, scene.NewNode("right_wall", right, 2))

	const lightSize = 130
	lightOffset := float32(boxSize-lightSize) / 2.0
	light := quad(
		vecmath.NewVector3(lightOffset, boxSize-1, lightOffset),
		vecmath.NewVector3(lightSize, 0, 0),
		vecmath.NewVector3(0, 0, lightSize),
		3,
	)
	nodes = append(nodes, scene.NewNode("ceiling_light", light, 3))

	metalXf := vecmath.TRS(
		vecmath.NewVector3(185, 82.5, 169),
		vecmath.QuatFromAxisAngle(vecmath.NewVector3(0, 1, 0), float32(math.Pi)/8),
		vecmath.NewVector3(165, 165, 165),
	)
	nodes = append(nodes, scene.NewNode("metal_box", boxMesh(vecmath.NewVector3(1, 1, 1), metalXf, 4), 4))

	diffuseXf := vecmath.TRS(
		vecmath.NewVector3(370, 100, 351),
		vecmath.QuatFromAxisAngle(vecmath.NewVector3(0, 1, 0), -float32(math.Pi)/9),
		vecmath.NewVector3(180, 200, 180),
	)
	nodes = append(nodes, scene.NewNode("diffuse_box", boxMesh(vecmath.NewVector3(1, 1, 1), diffuseXf, 5), 5))

	cam, err := scene.NewCamera(
		vecmath.NewVector3(278, 278, -800),
		vecmath.NewVector3(278, 278, 0),
		vecmath.NewVector3(0, 1, 0),
		40*float32(math.Pi)/180,
		1.0,
	)
	if err != nil {
		return nil, err
	}

	return scene.New(nodes, materials, cam)
}

// NewTiledCubes builds an n x n grid of cubes on a ground plane. Roughness
// grows with x+z across the grid, from 0 at one corner to 2(n-1)/(2n-1) at
// the opposite one; cubes on the same anti-diagonal share a roughness.
func NewTiledCubes(n int) (*scene.Scene, error) {
	if n < 1 {
		n = 1
	}

	materials := []scene.Material{
		{Albedo: vecmath.NewVector3(0.5, 0.5, 0.5), Roughness: 0.9}, // 0 ground
	}
	var nodes []scene.Node

	groundSize := float32(n)*2 + 4
	ground := quad(
		vecmath.NewVector3(-groundSize/2, 0, -groundSize/2),
		vecmath.NewVector3(groundSize, 0, 0),
		vecmath.NewVector3(0, 0, groundSize),
		0,
	)
	nodes = append(nodes, scene.NewNode("ground", ground, 0))

	spacing := float32(2)
	origin := -float32(n-1) * spacing / 2

	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			roughness := float32(x+z) / float32(2*(n-1)+1)
			matIndex := len(materials)
			materials = append(materials, scene.Material{
				Albedo:    vecmath.NewVector3(0.9, 0.6, 0.2),
				Metallic:  1,
				Roughness: roughness,
			})

			center := vecmath.NewVector3(origin+float32(x)*spacing, 0.5, origin+float32(z)*spacing)
			xf := vecmath.Translation(center)
			tris := boxMesh(vecmath.NewVector3(1, 1, 1), xf, matIndex)
			nodes = append(nodes, scene.NewNode("cube", tris, matIndex))
		}
	}

	lightMatIndex := len(materials)
	materials = append(materials, scene.Material{Emission: vecmath.NewVector3(20, 20, 18)})
	lightXf := vecmath.Translation(vecmath.NewVector3(0, float32(n)*2+4, 0))
	nodes = append(nodes, scene.NewNode("sky_light", boxMesh(vecmath.NewVector3(4, 0.2, 4), lightXf, lightMatIndex), lightMatIndex))

	cam, err := scene.NewCamera(
		vecmath.NewVector3(0, float32(n)+3, float32(n)*2+6),
		vecmath.NewVector3(0, 0.5, 0),
		vecmath.NewVector3(0, 1, 0),
		45*float32(math.Pi)/180,
		16.0/9.0,
	)
	if err != nil {
		return nil, err
	}

	return scene.New(nodes, materials, cam)
}

// NewEmissionTriangle builds a minimal two-triangle floor under a single
// glowing triangle, used for fast smoke-test renders.
func NewEmissionTriangle() (*scene.Scene, error) {
	materials := []scene.Material{
		{Albedo: vecmath.NewVector3(0.7, 0.7, 0.7)},
		{Emission: vecmath.NewVector3(8, 8, 8)},
	}

	floor := quad(vecmath.NewVector3(-10, 0, -10), vecmath.NewVector3(20, 0, 0), vecmath.NewVector3(0, 0, 20), 0)
	nodes := []scene.Node{scene.NewNode("floor", floor, 0)}

	emitter := []geometry.Triangle{
		geometry.NewTriangle(
			vecmath.NewVector3(-1, 3, 0),
			vecmath.NewVector3(1, 3, 0),
			vecmath.NewVector3(0, 5, 0),
			1,
		),
	}
	nodes = append(nodes, scene.NewNode("emitter", emitter, 1))

	cam, err := scene.NewCamera(
		vecmath.NewVector3(0, 2, 8),
		vecmath.NewVector3(0, 2, 0),
		vecmath.NewVector3(0, 1, 0),
		50*float32(math.Pi)/180,
		1.0,
	)
	if err != nil {
		return nil, err
	}

	return scene.New(nodes, materials, cam)
}
