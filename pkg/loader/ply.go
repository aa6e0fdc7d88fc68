package loader

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/kestrelrender/tracecore/pkg/geometry"
	"github.com/kestrelrender/tracecore/pkg/vecmath"
)

// ErrUnsupportedPLYFormat is returned for anything other than an ASCII PLY
// stream; binary little/big-endian formats are a known gap (see DESIGN.md).
var ErrUnsupportedPLYFormat = errors.New("loader: only ascii PLY is supported")

// LoadPLYTriangles reads an ASCII PLY stream with "element vertex" and
// "element face" sections and returns the resulting triangles, assigning
// every triangle the same material index.
func LoadPLYTriangles(r io.Reader, matIndex int) ([]geometry.Triangle, error) {
	scanner := bufio.NewScanner(r)

	vertexCount, faceCount, err := readPLYHeader(scanner)
	if err != nil {
		return nil, err
	}

	vertices := make([]vecmath.Vector3, 0, vertexCount)
	for i := 0; i < vertexCount; i++ {
		if !scanner.Scan() {
			return nil, errors.Errorf("loader: PLY truncated reading vertex %d of %d", i, vertexCount)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			return nil, errors.Errorf("loader: malformed vertex line %q", scanner.Text())
		}
		x, err := strconv.ParseFloat(fields[0], 32)
		if err != nil {
			return nil, errors.Wrap(err, "loader: parsing vertex x")
		}
		y, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return nil, errors.Wrap(err, "loader: parsing vertex y")
		}
		z, err := strconv.ParseFloat(fields[2], 32)
		if err != nil {
			return nil, errors.Wrap(err, "loader: parsing vertex z")
		}
		vertices = append(vertices, vecmath.NewVector3(float32(x), float32(y), float32(z)))
	}

	var triangles []geometry.Triangle
	for i := 0; i < faceCount; i++ {
		if !scanner.Scan() {
			return nil, errors.Errorf("loader: PLY truncated reading face %d of %d", i, faceCount)
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 1 {
			return nil, errors.Errorf("loader: empty face line")
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Wrap(err, "loader: parsing face vertex count")
		}
		if len(fields) < n+1 {
			return nil, errors.Errorf("loader: face declares %d vertices but line has too few fields", n)
		}

		idx := make([]int, n)
		for j := 0; j < n; j++ {
			v, err := strconv.Atoi(fields[j+1])
			if err != nil {
				return nil, errors.Wrap(err, "loader: parsing face vertex index")
			}
			if v < 0 || v >= len(vertices) {
				return nil, errors.Errorf("loader: face references out-of-range vertex %d", v)
			}
			idx[j] = v
		}

		// Fan-triangulate faces with more than 3 vertices.
		for j := 1; j+1 < n; j++ {
			triangles = append(triangles, geometry.NewTriangle(
				vertices[idx[0]], vertices[idx[j]], vertices[idx[j+1]], matIndex,
			))
		}
	}

	return triangles, nil
}

func readPLYHeader(scanner *bufio.Scanner) (vertexCount, faceCount int, err error) {
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return 0, 0, errors.New("loader: missing PLY magic line")
	}

	var currentElement string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) < 2 || fields[1] != "ascii" {
				return 0, 0, ErrUnsupportedPLYFormat
			}
		case "comment":
			continue
		case "element":
			if len(fields) < 3 {
				return 0, 0, errors.Errorf("loader: malformed element line %q", line)
			}
			currentElement = fields[1]
			count, err := strconv.Atoi(fields[2])
			if err != nil {
				return 0, 0, errors.Wrap(err, "loader: parsing element count")
			}
			switch currentElement {
			case "vertex":
				vertexCount = count
			case "face":
				faceCount = count
			}
		case "property":
			continue
		case "end_header":
			return vertexCount, faceCount, nil
		}
	}

	return 0, 0, errors.New("loader: PLY stream ended before end_header")
}
