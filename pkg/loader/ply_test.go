package loader

import (
	"strings"
	"testing"
)

const triangleQuadPLY = `ply
format ascii 1.0
comment generated for a test
element vertex 4
property float x
property float y
property float z
element face 2
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
3 0 1 2
3 0 2 3
`

func TestLoadPLYTriangles_ParsesQuadAsTwoTriangles(t *testing.T) {
	tris, err := LoadPLYTriangles(strings.NewReader(triangleQuadPLY), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(tris))
	}
	for _, tri := range tris {
		if tri.MatIndex != 5 {
			t.Errorf("expected material index 5, got %d", tri.MatIndex)
		}
	}
}

const pentagonPLY = `ply
format ascii 1.0
element vertex 5
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1.5 1 0
0.5 1.8 0
-0.5 1 0
5 0 1 2 3 4
`

func TestLoadPLYTriangles_FanTriangulatesPolygon(t *testing.T) {
	tris, err := LoadPLYTriangles(strings.NewReader(pentagonPLY), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tris) != 3 {
		t.Fatalf("expected a 5-gon to fan-triangulate into 3 triangles, got %d", len(tris))
	}
}

func TestLoadPLYTriangles_RejectsBinaryFormat(t *testing.T) {
	binaryHeader := "ply\nformat binary_little_endian 1.0\nelement vertex 0\nend_header\n"
	_, err := LoadPLYTriangles(strings.NewReader(binaryHeader), 0)
	if err != ErrUnsupportedPLYFormat {
		t.Errorf("expected ErrUnsupportedPLYFormat, got %v", err)
	}
}

func TestLoadPLYTriangles_RejectsOutOfRangeVertexIndex(t *testing.T) {
	bad := `ply
format ascii 1.0
element vertex 1
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
3 0 1 2
`
	_, err := LoadPLYTriangles(strings.NewReader(bad), 0)
	if err == nil {
		t.Errorf("expected an error for an out-of-range vertex index")
	}
}
